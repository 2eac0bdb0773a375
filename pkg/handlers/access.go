package handlers

import (
	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type access int

const (
	memberAccess access = iota
	managerAccess
)

// allow checks the caller's role in orgID, writing the error when it fails
func (h *Handler) allow(c *gin.Context, orgID string, level access) bool {
	var err error
	if level == managerAccess {
		_, err = h.Orgs.RequireManager(c.Request.Context(), orgID, currentUser(c))
	} else {
		_, err = h.Orgs.RequireMember(c.Request.Context(), orgID, currentUser(c))
	}
	if err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

// project resolves :projectId and checks the caller's role in its organization
func (h *Handler) project(c *gin.Context, level access) (*database.Project, bool) {
	p, err := h.Projects.Lookup(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !h.allow(c, p.OrganizationID, level) {
		return nil, false
	}
	return p, true
}

// shift resolves :shiftId through its project to an organization
func (h *Handler) shift(c *gin.Context, level access) (*database.Shift, bool) {
	ctx := c.Request.Context()
	sh, err := h.Store.Shifts.GetByID(ctx, c.Param("shiftId"))
	if errors.Is(err, store.ErrNotFound) {
		err = apperr.NotFound(apperr.CodeShiftNotFound, "shift %s not found", c.Param("shiftId"))
	}
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	p, err := h.Projects.Lookup(ctx, sh.ProjectID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !h.allow(c, p.OrganizationID, level) {
		return nil, false
	}
	return sh, true
}

// assignment loads :assignmentId. When ownerOK is set its worker may act on
// it; anyone else needs level in the assignment's organization.
func (h *Handler) assignment(c *gin.Context, level access, ownerOK bool) (*database.WorkerAssignment, bool) {
	ctx := c.Request.Context()
	a, err := h.Scheduler.GetAssignment(ctx, c.Param("assignmentId"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if ownerOK && a.UserID == currentUser(c) {
		return a, true
	}
	projectID := ""
	if a.Shift != nil {
		projectID = a.Shift.ProjectID
	} else {
		sh, err := h.Store.Shifts.GetByID(ctx, a.ShiftID)
		if err != nil {
			h.fail(c, errors.Wrap(err, "load shift"))
			return nil, false
		}
		projectID = sh.ProjectID
	}
	p, err := h.Projects.Lookup(ctx, projectID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !h.allow(c, p.OrganizationID, level) {
		return nil, false
	}
	return a, true
}
