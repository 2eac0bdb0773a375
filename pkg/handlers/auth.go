package handlers

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/auth"
	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Auth.SignUp(c.Request.Context(), auth.SignUpInput{Phone: req.Phone, Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.Auth.SendOTP(c.Request.Context(), req.Phone); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !h.bind(c, &req) {
		return
	}
	session, err := h.Auth.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(session))
}

func tokenResponse(s *auth.Session) models.TokenResponse {
	return models.TokenResponse{
		AccessToken:      s.Token,
		TokenType:        "bearer",
		ExpiresAt:        s.ExpiresAt,
		RefreshToken:     s.RefreshToken,
		RefreshExpiresAt: s.RefreshExpiresAt,
		User:             s.User,
	}
}

// Refresh swaps a refresh token for a new token pair
func (h *Handler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if !h.bind(c, &req) {
		return
	}
	session, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(session))
}

func (h *Handler) SignOut(c *gin.Context) {
	if err := h.Auth.SignOut(c.Request.Context(), currentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.Auth.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
