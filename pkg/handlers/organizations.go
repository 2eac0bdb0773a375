package handlers

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/arnavshah/shiftdock-api/pkg/orgs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req models.CreateOrganizationRequest
	if !h.bind(c, &req) {
		return
	}
	org, err := h.Orgs.Create(c.Request.Context(), currentUser(c), orgs.CreateInput{
		Name:                 req.Name,
		DefaultHourlyRate:    req.DefaultHourlyRate,
		DefaultContainerRate: req.DefaultContainerRate,
		DefaultBoxRate:       req.DefaultBoxRate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	list, err := h.Orgs.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": list})
}

func (h *Handler) GetOrganization(c *gin.Context) {
	org, err := h.Orgs.Get(c.Request.Context(), c.Param("orgId"), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	var req models.UpdateOrganizationRequest
	if !h.allow(c, c.Param("orgId"), managerAccess) || !h.bind(c, &req) {
		return
	}
	org, err := h.Orgs.Update(c.Request.Context(), c.Param("orgId"), currentUser(c), orgs.UpdateInput{
		Name:                 req.Name,
		DefaultHourlyRate:    req.DefaultHourlyRate,
		DefaultContainerRate: req.DefaultContainerRate,
		DefaultBoxRate:       req.DefaultBoxRate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) JoinOrganization(c *gin.Context) {
	var req models.JoinOrganizationRequest
	if !h.bind(c, &req) {
		return
	}
	jr, err := h.Orgs.Join(c.Request.Context(), currentUser(c), req.JoinCode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, jr)
}

func (h *Handler) JoinRequests(c *gin.Context) {
	list, err := h.Orgs.PendingRequests(c.Request.Context(), c.Param("orgId"), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

func (h *Handler) HandleJoinRequests(c *gin.Context) {
	var req models.HandleJoinRequestsRequest
	if !h.allow(c, c.Param("orgId"), managerAccess) || !h.bind(c, &req) {
		return
	}
	res, err := h.Orgs.HandleRequests(c.Request.Context(), c.Param("orgId"), currentUser(c), req.RequestIDs, *req.Approve)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Members(c *gin.Context) {
	list, err := h.Orgs.Members(c.Request.Context(), c.Param("orgId"), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": models.NewMembers(list)})
}

func (h *Handler) UpdateMemberStatus(c *gin.Context) {
	var req models.MemberStatusRequest
	if !h.allow(c, c.Param("orgId"), managerAccess) || !h.bind(c, &req) {
		return
	}
	m, err := h.Orgs.UpdateMemberStatus(c.Request.Context(), c.Param("orgId"), c.Param("userId"), currentUser(c), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewMember(*m))
}

func override(set *decimal.Decimal, reset bool) *decimal.NullDecimal {
	switch {
	case reset:
		return &decimal.NullDecimal{}
	case set != nil:
		return &decimal.NullDecimal{Decimal: *set, Valid: true}
	default:
		return nil
	}
}

func (h *Handler) UpdateMemberRates(c *gin.Context) {
	var req models.MemberRatesRequest
	if !h.allow(c, c.Param("orgId"), managerAccess) || !h.bind(c, &req) {
		return
	}
	reset := make(map[string]bool, len(req.Reset))
	for _, r := range req.Reset {
		reset[r] = true
	}
	m, err := h.Orgs.UpdateMemberRates(c.Request.Context(), c.Param("orgId"), c.Param("userId"), currentUser(c), orgs.RatesInput{
		HourlyRate:    override(req.HourlyRate, reset["hourly"]),
		ContainerRate: override(req.ContainerRate, reset["container"]),
		BoxRate:       override(req.BoxRate, reset["box"]),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewMember(*m))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	if err := h.Orgs.RemoveMember(c.Request.Context(), c.Param("orgId"), c.Param("userId"), currentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
