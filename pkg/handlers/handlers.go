// Package handlers exposes the scheduling services over HTTP with gin.
package handlers

import (
	"net/http"
	"strings"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/auth"
	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/arnavshah/shiftdock-api/pkg/notify"
	"github.com/arnavshah/shiftdock-api/pkg/orgs"
	"github.com/arnavshah/shiftdock-api/pkg/projects"
	"github.com/arnavshah/shiftdock-api/pkg/reports"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/arnavshah/shiftdock-api/pkg/users"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const userIDKey = "userID"

// Handler contains dependencies for the route handlers
type Handler struct {
	Store     *store.Store
	Auth      *auth.Service
	Tokens    *auth.Tokens
	Orgs      *orgs.Service
	Projects  *projects.Service
	Scheduler *scheduler.Scheduler
	Notify    *notify.Service
	Reports   *reports.Service
	Users     *users.Service
	Log       logrus.FieldLogger
}

// Deps are the process-level resources a Handler is built from
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	OTPStore auth.OTPStore
	SMS      auth.SMSSender
	Metrics  *metrics.Recorder
	Log      logrus.FieldLogger
}

// New wires the services on top of one database handle
func New(d Deps) *Handler {
	st := store.New(d.DB)
	notifier := notify.NewService(st, d.Log)
	sched := scheduler.NewScheduler(st, notifier, d.Log, scheduler.WithMetrics(d.Metrics))
	tokens := auth.NewTokens(d.Config.Secret(), d.Config.TokenTTL).WithRefreshTTL(d.Config.RefreshTTL)

	sms := d.SMS
	if sms == nil {
		sms = auth.LogSender{Log: d.Log, Reveal: d.Config.Environment == config.Development}
	}
	authSvc := auth.NewService(st, d.OTPStore, sms, tokens, auth.Options{
		TTL:      d.Config.OTPTTL,
		Length:   d.Config.OTPLength,
		DevCode:  d.Config.OTPDevCode,
		HashCost: d.Config.OTPHashCost,
	}, d.Log)

	return &Handler{
		Store:     st,
		Auth:      authSvc,
		Tokens:    tokens,
		Orgs:      orgs.NewService(st, notifier, d.Log),
		Projects:  projects.NewService(st, sched, d.Log),
		Scheduler: sched,
		Notify:    notifier,
		Reports:   reports.NewService(st, d.Log),
		Users:     users.NewService(st, d.Log),
		Log:       d.Log,
	}
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: models.ErrorBody{Code: code, Message: message}})
}

// fail writes err as the error body. Untyped errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		h.Log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		abortWith(c, http.StatusInternalServerError, apperr.CodeInternal, "internal server error")
		return
	}
	abortWith(c, statusOf(e.Kind), e.Code, e.Message)
}

// bind decodes the JSON body into req, writing a 400 when it fails
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWith(c, http.StatusBadRequest, apperr.CodeValidationFailed, err.Error())
		return false
	}
	return true
}

// AuthMiddleware verifies the bearer token and stores its user id
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			abortWith(c, http.StatusUnauthorized, apperr.CodeInvalidToken, "authorization header required")
			return
		}
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

		claims, err := h.Tokens.Verify(token)
		if err != nil {
			h.fail(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// dateRange reads optional from/to query parameters
func dateRange(c *gin.Context) *store.DateRange {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return nil
	}
	return &store.DateRange{From: from, To: to}
}

func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ShiftDock API",
		"version": Version,
	})
}

// Health pings the database
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.Store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const Version = "1.0.0"
