package handlers

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/arnavshah/shiftdock-api/pkg/users"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.Users.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), currentUser(c), users.ProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetUser shows users the caller shares an organization with
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), currentUser(c), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
