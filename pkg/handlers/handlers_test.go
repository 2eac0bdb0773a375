package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/shiftdock-api/internal/testdb"
	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/auth"
	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type server struct {
	t      *testing.T
	db     *gorm.DB
	h      *Handler
	router *gin.Engine
}

func newServer(t *testing.T, otpRate string) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t)
	logger, _ := test.NewNullLogger()
	reg := prometheus.NewRegistry()
	cfg := &config.Config{
		Environment: config.Development,
		TokenTTL:    time.Hour,
		OTPTTL:      time.Minute,
		OTPLength:   6,
		OTPDevCode:  "123456",
		OTPHashCost: bcrypt.MinCost,
	}

	h := New(Deps{
		DB:       db,
		Config:   cfg,
		OTPStore: auth.NewMemoryOTPStore(),
		Metrics:  metrics.New(reg),
		Log:      logger,
	})

	opts := RouteOptions{Gatherer: reg}
	if otpRate != "" {
		st, err := NewLimiterStore(nil)
		require.NoError(t, err)
		opts.OTPLimit, err = RateLimit(otpRate, st)
		require.NoError(t, err)
	}
	r := gin.New()
	h.Register(r, opts)
	return &server{t: t, db: db, h: h, router: r}
}

func (s *server) token(userID string) string {
	s.t.Helper()
	tok, _, err := s.h.Tokens.Issue(userID)
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[models.ErrorResponse](t, w).Error.Code
}

// org seeds an owner, a worker and an active project
type org struct {
	owner, worker database.User
	org           database.Organization
	project       database.Project
}

func (s *server) seed() org {
	owner := testdb.User(s.t, s.db, "Olive")
	worker := testdb.User(s.t, s.db, "Walt")
	o := testdb.Organization(s.t, s.db, owner.ID)
	testdb.Member(s.t, s.db, o.ID, worker.ID, database.RoleWorker)
	p := testdb.Project(s.t, s.db, o.ID, database.ContractActive)
	return org{owner: owner, worker: worker, org: o, project: p}
}

func TestIndexAndHealth(t *testing.T) {
	s := newServer(t, "")

	w := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), Version)

	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOTPLoginFlow(t *testing.T) {
	s := newServer(t, "")

	w := s.do(http.MethodPost, "/auth/signup", "", gin.H{"phone": "+15550100", "name": "Wes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/signup", "", gin.H{"phone": "+15550100", "name": "Wes"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.CodeUserExists, errorCode(t, w))

	w = s.do(http.MethodPost, "/auth/otp/send", "", gin.H{"phone": "+15550100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/otp/verify", "", gin.H{"phone": "+15550100", "code": "000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidOTP, errorCode(t, w))

	w = s.do(http.MethodPost, "/auth/otp/verify", "", gin.H{"phone": "+15550100", "code": "123456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := decode[models.TokenResponse](t, w)
	assert.Equal(t, "bearer", tok.TokenType)

	w = s.do(http.MethodGet, "/api/auth/me", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[database.User](t, w)
	assert.Equal(t, "Wes", me.Name)
}

func TestSendOTPUnknownPhone(t *testing.T) {
	s := newServer(t, "")
	w := s.do(http.MethodPost, "/auth/otp/send", "", gin.H{"phone": "+15559999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeUserNotFound, errorCode(t, w))
}

func TestOTPRateLimited(t *testing.T) {
	s := newServer(t, "2-M")
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/auth/otp/send", "", gin.H{"phone": "+15559999"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := s.do(http.MethodPost, "/auth/otp/send", "", gin.H{"phone": "+15559999"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperr.CodeRateLimited, errorCode(t, w))

	w = s.do(http.MethodPost, "/auth/signup", "", gin.H{"phone": "+15550100", "name": "Wes"})
	assert.Equal(t, http.StatusCreated, w.Code, "signup is not limited")
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t, "")

	w := s.do(http.MethodGet, "/api/organizations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidToken, errorCode(t, w))

	w = s.do(http.MethodGet, "/api/organizations", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidToken, errorCode(t, w))
}

func TestOrganizationRoles(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	stranger := testdb.User(t, s.db, "Sam")
	path := "/api/organizations/" + f.org.ID

	w := s.do(http.MethodGet, path, s.token(f.worker.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, s.token(stranger.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeNotAMember, errorCode(t, w))

	w = s.do(http.MethodPut, path, s.token(f.worker.ID), gin.H{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperr.CodeInsufficientRole, errorCode(t, w))

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"name": "Renamed", "default_box_rate": "0.75"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[database.Organization](t, w)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "0.75", updated.DefaultBoxRate.String())
}

func TestJoinFlow(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	joiner := testdb.User(t, s.db, "Jo")

	w := s.do(http.MethodPost, "/api/organizations/join", s.token(joiner.ID), gin.H{"join_code": f.org.JoinCode})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	jr := decode[database.JoinRequest](t, w)

	w = s.do(http.MethodPost, "/api/organizations/join", s.token(joiner.ID), gin.H{"join_code": f.org.JoinCode})
	assert.Equal(t, http.StatusConflict, w.Code)

	reqPath := "/api/organizations/" + f.org.ID + "/join-requests"
	w = s.do(http.MethodGet, reqPath, s.token(f.worker.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, reqPath+"/handle", s.token(f.owner.ID), gin.H{"request_ids": []string{jr.ID}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "approve is required")

	w = s.do(http.MethodPost, reqPath+"/handle", s.token(f.owner.ID), gin.H{"request_ids": []string{jr.ID}, "approve": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"processed_count":1`)

	w = s.do(http.MethodGet, "/api/organizations/"+f.org.ID+"/members", s.token(joiner.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	members := decode[struct {
		Members []models.Member `json:"members"`
	}](t, w)
	assert.Len(t, members.Members, 3)
}

func TestMemberRatesOverrideAndReset(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	path := "/api/organizations/" + f.org.ID + "/members/" + f.worker.ID + "/rates"

	w := s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"hourly_rate": "31.5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode[models.Member](t, w)
	require.True(t, m.HourlyRate.Valid)
	assert.Equal(t, "31.5", m.HourlyRate.Decimal.String())

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"reset": []string{"hourly"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m = decode[models.Member](t, w)
	assert.False(t, m.HourlyRate.Valid)

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"reset": []string{"weekly"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncShiftsEndpoint(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	path := "/api/projects/" + f.project.ID + "/shifts/sync"
	body := gin.H{"shifts": []gin.H{
		{"shift_date": "2099-01-01", "start_time": "08:00", "end_time": "12:00"},
		{"shift_date": "2099-01-02", "start_time": "22:00", "end_time": "02:00", "target_quantity": 40},
	}}

	w := s.do(http.MethodPut, path, s.token(f.worker.ID), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[models.SyncShiftsResponse](t, w)
	assert.Equal(t, 2, res.AddedCount)
	assert.Len(t, res.Shifts, 2)

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"shifts": []gin.H{
		{"shift_date": "2099-13-01", "start_time": "08:00", "end_time": "12:00"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidationFailed, errorCode(t, w))

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "shifts is required")

	w = s.do(http.MethodPut, "/api/projects/missing/shifts/sync", s.token(f.owner.ID), body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeProjectNotFound, errorCode(t, w))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shiftdock_sync_total")
}

func TestAssignmentEndpoints(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	other := testdb.User(t, s.db, "Otto")
	testdb.Member(t, s.db, f.org.ID, other.ID, database.RoleWorker)
	sh := testdb.Shift(t, s.db, f.project.ID, "2099-01-01", "08:00", "12:00")
	owner := s.token(f.owner.ID)

	syncPath := "/api/organizations/" + f.org.ID + "/projects/" + f.project.ID + "/assignments/sync"
	w := s.do(http.MethodPut, syncPath, owner, gin.H{"assignments": []gin.H{
		{"shift_id": sh.ID, "user_id": f.worker.ID},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	synced := decode[models.SyncAssignmentsResponse](t, w)
	require.Len(t, synced.Assignments, 1)
	assignmentID := synced.Assignments[0].ID

	w = s.do(http.MethodPost, "/api/assignments/shift/"+sh.ID+"/assign", owner, gin.H{"user_id": f.worker.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.CodeAlreadyAssigned, errorCode(t, w))

	w = s.do(http.MethodPost, "/api/assignments/shift/"+sh.ID+"/bulk-assign", owner, gin.H{"user_ids": []string{f.worker.ID, other.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bulk := decode[models.BulkAssignResponse](t, w)
	assert.Equal(t, 1, bulk.CreatedCount)

	w = s.do(http.MethodGet, "/api/assignments/mine", s.token(f.worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), assignmentID)

	statusPath := "/api/assignments/" + assignmentID + "/status"
	w = s.do(http.MethodPut, statusPath, s.token(other.ID), gin.H{"status": "Accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code, "workers cannot update others' assignments")

	w = s.do(http.MethodPut, statusPath, s.token(f.worker.ID), gin.H{"status": "Accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, database.StatusAccepted, decode[models.Assignment](t, w).Status)

	w = s.do(http.MethodPut, statusPath, s.token(f.worker.ID), gin.H{"status": "Sleeping"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeInvalidStatus, errorCode(t, w))

	w = s.do(http.MethodDelete, "/api/assignments/"+assignmentID, s.token(f.worker.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/assignments/"+assignmentID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/assignments/shift/"+sh.ID, s.token(f.worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Assignments []models.Assignment `json:"assignments"`
	}](t, w)
	require.Len(t, list.Assignments, 1)
	assert.Equal(t, other.ID, list.Assignments[0].UserID)
}

func TestProjectPauseReportsGate(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	sh := testdb.Shift(t, s.db, f.project.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, s.db, sh.ID, f.worker.ID)
	path := "/api/organizations/" + f.org.ID + "/projects/" + f.project.ID

	w := s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"contract_status": "Paused"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[models.ProjectResponse](t, w)
	assert.Equal(t, database.ContractPaused, res.Project.ContractStatus)
	require.NotNil(t, res.StatusGate)
	assert.Equal(t, 1, res.StatusGate.Unassigned)

	w = s.do(http.MethodGet, "/api/notifications/unread-count", s.token(f.worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = s.do(http.MethodPut, "/api/notifications/read-all", s.token(f.worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	w = s.do(http.MethodPut, path, s.token(f.owner.ID), gin.H{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "status_gate")
}

func TestProjectListAndCreate(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	path := "/api/organizations/" + f.org.ID + "/projects"

	w := s.do(http.MethodPost, path, s.token(f.worker.ID), gin.H{"name": "Night crew"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, path, s.token(f.owner.ID), gin.H{"name": "Night crew", "work_type": "Container", "rate": "55"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, path+"?page=1&page_size=1", s.token(f.worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.ProjectPage](t, w)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestReportEndpoints(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	testdb.Shift(t, s.db, f.project.ID, "2099-01-01", "08:00", "12:00")
	owner := s.token(f.owner.ID)
	base := "/api/organizations/" + f.org.ID

	w := s.do(http.MethodGet, base+"/reports/attendance", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, base+"/reports/attendance?from=2099-01-01&to=2099-01-31", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_2099-01-01_2099-01-31.csv")
	assert.Contains(t, w.Body.String(), "2099-01-01,Pier 9 unload,08:00,12:00,,0")

	w = s.do(http.MethodGet, "/api/projects/"+f.project.ID+"/reports/csv?from=2099-01-01&to=2099-01-31", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, base+"/reports/payroll?from=2099-01-01&to=2099-01-31", s.token(f.worker.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, base+"/reports/payroll?from=2099-01-31&to=2099-01-01", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, base+"/dashboard", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, base+"/dashboard/worker", s.token(f.worker.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshAndSignOut(t *testing.T) {
	s := newServer(t, "")
	u := testdb.User(t, s.db, "Wes")

	w := s.do(http.MethodPost, "/auth/otp/resend", "", gin.H{"phone": u.Phone})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/auth/otp/verify", "", gin.H{"phone": u.Phone, "code": "123456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := decode[models.TokenResponse](t, w)
	require.NotEmpty(t, tok.RefreshToken)

	w = s.do(http.MethodGet, "/api/auth/me", tok.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens cannot call the api")

	w = s.do(http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": tok.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	renewed := decode[models.TokenResponse](t, w)
	assert.Equal(t, u.ID, renewed.User.ID)

	w = s.do(http.MethodPost, "/auth/refresh", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/signout", renewed.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": renewed.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidToken, errorCode(t, w))
}

func TestUserProfileEndpoints(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	stranger := testdb.User(t, s.db, "Sam")
	worker := s.token(f.worker.ID)

	w := s.do(http.MethodPut, "/api/users/profile", worker, gin.H{"name": "Walter", "email": "walt@example.com", "date_of_birth": "1988-02-29"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/users/profile", worker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[database.User](t, w)
	assert.Equal(t, "Walter", me.Name)
	require.NotNil(t, me.Email)
	assert.Equal(t, "walt@example.com", *me.Email)
	require.NotNil(t, me.DateOfBirth)

	w = s.do(http.MethodPut, "/api/users/profile", worker, gin.H{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidationFailed, errorCode(t, w))

	w = s.do(http.MethodGet, "/api/users/"+f.worker.ID, s.token(f.owner.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Walter", decode[database.User](t, w).Name)

	w = s.do(http.MethodGet, "/api/users/"+f.worker.ID, s.token(stranger.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeUserNotFound, errorCode(t, w))
}

func TestAccessCheckedBeforeBody(t *testing.T) {
	s := newServer(t, "")
	f := s.seed()
	stranger := testdb.User(t, s.db, "Sam")
	sh := testdb.Shift(t, s.db, f.project.ID, "2099-01-01", "08:00", "12:00")
	a := testdb.Assignment(t, s.db, sh.ID, f.owner.ID)
	org := "/api/organizations/" + f.org.ID
	bad := gin.H{"shifts": 7, "shift_date": false, "user_id": 1, "status": 3, "name": 9}

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/projects/" + f.project.ID + "/shifts"},
		{http.MethodPut, "/api/projects/" + f.project.ID + "/shifts/sync"},
		{http.MethodPut, "/api/projects/" + f.project.ID + "/shifts/" + sh.ID},
		{http.MethodPost, "/api/assignments/shift/" + sh.ID + "/assign"},
		{http.MethodPost, "/api/assignments/shift/" + sh.ID + "/bulk-assign"},
		{http.MethodPut, "/api/assignments/" + a.ID + "/status"},
		{http.MethodPost, org + "/projects"},
		{http.MethodPut, org + "/projects/" + f.project.ID},
		{http.MethodPut, org + "/projects/" + f.project.ID + "/assignments/sync"},
		{http.MethodPut, org},
		{http.MethodPost, org + "/join-requests/handle"},
		{http.MethodPut, org + "/members/" + f.worker.ID + "/status"},
		{http.MethodPut, org + "/members/" + f.worker.ID + "/rates"},
	}
	for _, p := range paths {
		w := s.do(p.method, p.path, s.token(f.worker.ID), bad)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", p.method, p.path)

		w = s.do(p.method, p.path, s.token(stranger.ID), bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
		assert.Equal(t, apperr.CodeNotAMember, errorCode(t, w), "%s %s", p.method, p.path)
	}
}
