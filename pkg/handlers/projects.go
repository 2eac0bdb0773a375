package handlers

import (
	"net/http"
	"strconv"

	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/arnavshah/shiftdock-api/pkg/projects"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProjects(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, memberAccess) {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(projects.DefaultPageSize)))

	res, err := h.Projects.List(c.Request.Context(), orgID, page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectPage{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	})
}

func (h *Handler) CreateProject(c *gin.Context) {
	orgID := c.Param("orgId")
	var req models.CreateProjectRequest
	if !h.allow(c, orgID, managerAccess) || !h.bind(c, &req) {
		return
	}
	p, err := h.Projects.Create(c.Request.Context(), orgID, projects.CreateInput{
		Name:           req.Name,
		Location:       req.Location,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
		WorkType:       req.WorkType,
		Rate:           req.Rate,
		ContractStatus: req.ContractStatus,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProject(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, memberAccess) {
		return
	}
	p, err := h.Projects.Get(c.Request.Context(), orgID, c.Param("projectId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProject applies the changed fields. Leaving Active clears future
// assignments; the response then carries the gate counts.
func (h *Handler) UpdateProject(c *gin.Context) {
	orgID := c.Param("orgId")
	var req models.UpdateProjectRequest
	if !h.allow(c, orgID, managerAccess) || !h.bind(c, &req) {
		return
	}
	p, gate, err := h.Projects.Update(c.Request.Context(), orgID, c.Param("projectId"), projects.UpdateInput{
		Name:           req.Name,
		Location:       req.Location,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
		WorkType:       req.WorkType,
		Rate:           req.Rate,
		ContractStatus: req.ContractStatus,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(p, gate))
}

func (h *Handler) DeleteProject(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	if err := h.Projects.Delete(c.Request.Context(), orgID, c.Param("projectId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *Handler) ListShifts(c *gin.Context) {
	p, ok := h.project(c, memberAccess)
	if !ok {
		return
	}
	shifts, err := h.Projects.Shifts(c.Request.Context(), p.ID, dateRange(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

func (h *Handler) CreateShift(c *gin.Context) {
	p, ok := h.project(c, managerAccess)
	if !ok {
		return
	}
	var req models.ShiftRequest
	if !h.bind(c, &req) {
		return
	}
	sh, err := h.Projects.CreateShift(c.Request.Context(), p.ID, req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sh)
}

// SyncShifts replaces the project's shift list with the submitted one
func (h *Handler) SyncShifts(c *gin.Context) {
	p, ok := h.project(c, managerAccess)
	if !ok {
		return
	}
	var req models.SyncShiftsRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Scheduler.SyncShifts(c.Request.Context(), p.ID, req.Inputs())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSyncShiftsResponse(res))
}

func (h *Handler) UpdateShift(c *gin.Context) {
	p, ok := h.project(c, managerAccess)
	if !ok {
		return
	}
	var req models.UpdateShiftRequest
	if !h.bind(c, &req) {
		return
	}
	sh, err := h.Projects.UpdateShift(c.Request.Context(), p.ID, c.Param("shiftId"), projects.ShiftPatch{
		ShiftDate:      req.ShiftDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		TargetQuantity: req.TargetQuantity,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

func (h *Handler) DeleteShift(c *gin.Context) {
	p, ok := h.project(c, managerAccess)
	if !ok {
		return
	}
	if err := h.Projects.DeleteShift(c.Request.Context(), p.ID, c.Param("shiftId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}

func (h *Handler) ProjectAssignments(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, memberAccess) {
		return
	}
	list, err := h.Scheduler.ProjectAssignments(c.Request.Context(), orgID, c.Param("projectId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": models.NewAssignments(list)})
}

// SyncAssignments replaces the project's assignment set with the submitted one
func (h *Handler) SyncAssignments(c *gin.Context) {
	orgID := c.Param("orgId")
	var req models.SyncAssignmentsRequest
	if !h.allow(c, orgID, managerAccess) || !h.bind(c, &req) {
		return
	}
	res, err := h.Scheduler.SyncProjectAssignments(c.Request.Context(), orgID, c.Param("projectId"), req.Inputs())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSyncAssignmentsResponse(res))
}
