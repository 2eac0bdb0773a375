package handlers

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) MyAssignments(c *gin.Context) {
	list, err := h.Scheduler.WorkerAssignments(c.Request.Context(), currentUser(c), dateRange(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": models.NewAssignments(list)})
}

func (h *Handler) ShiftAssignments(c *gin.Context) {
	sh, ok := h.shift(c, memberAccess)
	if !ok {
		return
	}
	list, err := h.Scheduler.ShiftAssignments(c.Request.Context(), sh.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": models.NewAssignments(list)})
}

func (h *Handler) AssignWorker(c *gin.Context) {
	sh, ok := h.shift(c, managerAccess)
	if !ok {
		return
	}
	var req models.AssignRequest
	if !h.bind(c, &req) {
		return
	}
	a, err := h.Scheduler.AssignWorker(c.Request.Context(), sh.ID, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewAssignment(*a))
}

// BulkAssignWorkers assigns every listed worker not already on the shift
func (h *Handler) BulkAssignWorkers(c *gin.Context) {
	sh, ok := h.shift(c, managerAccess)
	if !ok {
		return
	}
	var req models.BulkAssignRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Scheduler.BulkAssignWorkers(c.Request.Context(), sh.ID, req.UserIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewBulkAssignResponse(res))
}

// UpdateAssignmentStatus is open to the assigned worker and to managers
func (h *Handler) UpdateAssignmentStatus(c *gin.Context) {
	a, ok := h.assignment(c, managerAccess, true)
	if !ok {
		return
	}
	var req models.UpdateAssignmentStatusRequest
	if !h.bind(c, &req) {
		return
	}
	updated, err := h.Scheduler.UpdateStatus(c.Request.Context(), a.ID, req.Update())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAssignment(*updated))
}

func (h *Handler) RemoveAssignment(c *gin.Context) {
	a, ok := h.assignment(c, managerAccess, false)
	if !ok {
		return
	}
	if err := h.Scheduler.RemoveAssignment(c.Request.Context(), a.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed"})
}
