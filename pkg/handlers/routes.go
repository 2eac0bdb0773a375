package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteOptions carries the pieces of the router that differ per deployment
type RouteOptions struct {
	// OTPLimit guards the code endpoints; nil disables limiting
	OTPLimit    gin.HandlerFunc
	MetricsPath string
	Gatherer    prometheus.Gatherer
}

// Register mounts every route on r
func (h *Handler) Register(r *gin.Engine, opts RouteOptions) {
	RegisterValidators()

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/refresh", h.Refresh)

		otp := authGroup.Group("/otp")
		if opts.OTPLimit != nil {
			otp.Use(opts.OTPLimit)
		}
		otp.POST("/send", h.SendOTP)
		otp.POST("/resend", h.SendOTP)
		otp.POST("/verify", h.VerifyOTP)
	}

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/auth/me", h.Me)
		api.POST("/auth/signout", h.SignOut)

		usr := api.Group("/users")
		usr.GET("/profile", h.Profile)
		usr.PUT("/profile", h.UpdateProfile)
		usr.GET("/:userId", h.GetUser)

		org := api.Group("/organizations")
		org.POST("", h.CreateOrganization)
		org.GET("", h.ListOrganizations)
		org.POST("/join", h.JoinOrganization)
		org.GET("/:orgId", h.GetOrganization)
		org.PUT("/:orgId", h.UpdateOrganization)
		org.GET("/:orgId/join-requests", h.JoinRequests)
		org.POST("/:orgId/join-requests/handle", h.HandleJoinRequests)
		org.GET("/:orgId/members", h.Members)
		org.PUT("/:orgId/members/:userId/status", h.UpdateMemberStatus)
		org.PUT("/:orgId/members/:userId/rates", h.UpdateMemberRates)
		org.DELETE("/:orgId/members/:userId", h.RemoveMember)

		org.GET("/:orgId/projects", h.ListProjects)
		org.POST("/:orgId/projects", h.CreateProject)
		org.GET("/:orgId/projects/:projectId", h.GetProject)
		org.PUT("/:orgId/projects/:projectId", h.UpdateProject)
		org.DELETE("/:orgId/projects/:projectId", h.DeleteProject)
		org.GET("/:orgId/projects/:projectId/assignments", h.ProjectAssignments)
		org.PUT("/:orgId/projects/:projectId/assignments/sync", h.SyncAssignments)

		org.GET("/:orgId/reports/payroll", h.Payroll)
		org.GET("/:orgId/reports/attendance", h.AttendanceReportCSV)
		org.GET("/:orgId/reports/workers", h.WorkerReportCSV)
		org.GET("/:orgId/dashboard", h.DashboardStats)
		org.GET("/:orgId/dashboard/today", h.TodayShifts)
		org.GET("/:orgId/dashboard/worker", h.WorkerDashboard)

		proj := api.Group("/projects/:projectId")
		proj.GET("/shifts", h.ListShifts)
		proj.POST("/shifts", h.CreateShift)
		proj.PUT("/shifts/sync", h.SyncShifts)
		proj.PUT("/shifts/:shiftId", h.UpdateShift)
		proj.DELETE("/shifts/:shiftId", h.DeleteShift)
		proj.GET("/reports/csv", h.ProjectReportCSV)

		asg := api.Group("/assignments")
		asg.GET("/mine", h.MyAssignments)
		asg.GET("/shift/:shiftId", h.ShiftAssignments)
		asg.POST("/shift/:shiftId/assign", h.AssignWorker)
		asg.POST("/shift/:shiftId/bulk-assign", h.BulkAssignWorkers)
		asg.PUT("/:assignmentId/status", h.UpdateAssignmentStatus)
		asg.DELETE("/:assignmentId", h.RemoveAssignment)

		notes := api.Group("/notifications")
		notes.GET("", h.ListNotifications)
		notes.GET("/unread-count", h.UnreadCount)
		notes.PUT("/read-all", h.MarkAllRead)
		notes.PUT("/:id/read", h.MarkRead)
	}
}
