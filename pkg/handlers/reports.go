package handlers

import (
	"fmt"
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/reports"
	"github.com/gin-gonic/gin"
)

func period(c *gin.Context) reports.Period {
	return reports.Period{From: c.Query("from"), To: c.Query("to")}
}

func sendCSV(c *gin.Context, name string, p reports.Period, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s_%s.csv"`, name, p.From, p.To))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *Handler) Payroll(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	res, err := h.Reports.Payroll(c.Request.Context(), orgID, dateRange(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ProjectReportCSV(c *gin.Context) {
	p, ok := h.project(c, managerAccess)
	if !ok {
		return
	}
	per := period(c)
	body, err := h.Reports.ProjectCSV(c.Request.Context(), p.ID, per)
	if err != nil {
		h.fail(c, err)
		return
	}
	sendCSV(c, "project", per, body)
}

func (h *Handler) AttendanceReportCSV(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	per := period(c)
	body, err := h.Reports.AttendanceCSV(c.Request.Context(), orgID, per)
	if err != nil {
		h.fail(c, err)
		return
	}
	sendCSV(c, "attendance", per, body)
}

func (h *Handler) WorkerReportCSV(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	per := period(c)
	body, err := h.Reports.WorkerCSV(c.Request.Context(), orgID, per)
	if err != nil {
		h.fail(c, err)
		return
	}
	sendCSV(c, "workers", per, body)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	stats, err := h.Reports.Stats(c.Request.Context(), orgID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) TodayShifts(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, managerAccess) {
		return
	}
	list, err := h.Reports.TodayShifts(c.Request.Context(), orgID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": list})
}

// WorkerDashboard summarises the caller's own work in the organization
func (h *Handler) WorkerDashboard(c *gin.Context) {
	orgID := c.Param("orgId")
	if !h.allow(c, orgID, memberAccess) {
		return
	}
	res, err := h.Reports.WorkerDashboard(c.Request.Context(), orgID, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
