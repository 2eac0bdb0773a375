package models

import (
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/shopspring/decimal"
)

// ErrorBody is the payload of every failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SignUpRequest registers a phone number
type SignUpRequest struct {
	Phone string  `json:"phone" binding:"required,min=7,max=20"`
	Name  string  `json:"name" binding:"required,max=200"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,numeric"`
}

type TokenResponse struct {
	AccessToken      string         `json:"access_token"`
	TokenType        string         `json:"token_type"`
	ExpiresAt        time.Time      `json:"expires_at"`
	RefreshToken     string         `json:"refresh_token"`
	RefreshExpiresAt time.Time      `json:"refresh_expires_at"`
	User             *database.User `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest edits the caller's profile; omitted or empty fields are
// kept. The users service validates the values.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	DateOfBirth *string `json:"date_of_birth"`
}

type CreateOrganizationRequest struct {
	Name                 string          `json:"name" binding:"required,max=200"`
	DefaultHourlyRate    decimal.Decimal `json:"default_hourly_rate"`
	DefaultContainerRate decimal.Decimal `json:"default_container_rate"`
	DefaultBoxRate       decimal.Decimal `json:"default_box_rate"`
}

type UpdateOrganizationRequest struct {
	Name                 *string          `json:"name" binding:"omitempty,min=1,max=200"`
	DefaultHourlyRate    *decimal.Decimal `json:"default_hourly_rate"`
	DefaultContainerRate *decimal.Decimal `json:"default_container_rate"`
	DefaultBoxRate       *decimal.Decimal `json:"default_box_rate"`
}

type JoinOrganizationRequest struct {
	JoinCode string `json:"join_code" binding:"required,len=8"`
}

type HandleJoinRequestsRequest struct {
	RequestIDs []string `json:"request_ids" binding:"required,min=1,dive,required"`
	Approve    *bool    `json:"approve" binding:"required"`
}

type MemberStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MemberRatesRequest sets per-member rate overrides. Rates named in Reset go
// back to the organization default.
type MemberRatesRequest struct {
	HourlyRate    *decimal.Decimal `json:"hourly_rate"`
	ContainerRate *decimal.Decimal `json:"container_rate"`
	BoxRate       *decimal.Decimal `json:"box_rate"`
	Reset         []string         `json:"reset" binding:"omitempty,dive,oneof=hourly container box"`
}

// Member is a membership joined with its user
type Member struct {
	UserID        string                `json:"user_id"`
	Name          string                `json:"name"`
	Phone         string                `json:"phone"`
	Role          database.OrgRole      `json:"role"`
	Status        database.MemberStatus `json:"status"`
	HourlyRate    decimal.NullDecimal   `json:"hourly_rate"`
	ContainerRate decimal.NullDecimal   `json:"container_rate"`
	BoxRate       decimal.NullDecimal   `json:"box_rate"`
	JoinedAt      time.Time             `json:"joined_at"`
}

func NewMember(m database.OrganizationMembership) Member {
	out := Member{
		UserID:        m.UserID,
		Role:          m.Role,
		Status:        m.Status,
		HourlyRate:    m.HourlyRate,
		ContainerRate: m.ContainerRate,
		BoxRate:       m.BoxRate,
		JoinedAt:      m.JoinedAt,
	}
	if m.User != nil {
		out.Name = m.User.Name
		out.Phone = m.User.Phone
	}
	return out
}

func NewMembers(ms []database.OrganizationMembership) []Member {
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMember(m))
	}
	return out
}

type CreateProjectRequest struct {
	Name           string          `json:"name" binding:"required,max=200"`
	Location       *string         `json:"location" binding:"omitempty,max=500"`
	Latitude       *float64        `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64        `json:"longitude" binding:"omitempty,longitude"`
	Notes          *string         `json:"notes" binding:"omitempty,max=1000"`
	WorkType       string          `json:"work_type"`
	Rate           decimal.Decimal `json:"rate"`
	ContractStatus string          `json:"contract_status"`
}

type UpdateProjectRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Location       *string          `json:"location" binding:"omitempty,max=500"`
	Latitude       *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64         `json:"longitude" binding:"omitempty,longitude"`
	Notes          *string          `json:"notes" binding:"omitempty,max=1000"`
	WorkType       *string          `json:"work_type"`
	Rate           *decimal.Decimal `json:"rate"`
	ContractStatus *string          `json:"contract_status"`
}

// StatusGate reports the assignments cleared when a project stopped being active
type StatusGate struct {
	Shifts     int `json:"shifts"`
	Unassigned int `json:"unassigned"`
	Notified   int `json:"notified"`
}

type ProjectResponse struct {
	Project    *database.Project `json:"project"`
	StatusGate *StatusGate       `json:"status_gate,omitempty"`
}

func NewProjectResponse(p *database.Project, gate *scheduler.GateResult) ProjectResponse {
	out := ProjectResponse{Project: p}
	if gate != nil {
		out.StatusGate = &StatusGate{Shifts: gate.Shifts, Unassigned: gate.Unassigned, Notified: gate.Notified}
	}
	return out
}

type ProjectPage struct {
	Items      []database.Project `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ShiftRequest is one desired shift. An empty id creates a new shift.
type ShiftRequest struct {
	ID             string `json:"id"`
	ShiftDate      string `json:"shift_date" binding:"required,shiftdate"`
	StartTime      string `json:"start_time" binding:"required,hhmm"`
	EndTime        string `json:"end_time" binding:"required,hhmm"`
	TargetQuantity *int   `json:"target_quantity" binding:"omitempty,min=1"`
}

func (r ShiftRequest) Input() scheduler.ShiftInput {
	return scheduler.ShiftInput{
		ID:             r.ID,
		ShiftDate:      r.ShiftDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		TargetQuantity: r.TargetQuantity,
	}
}

type UpdateShiftRequest struct {
	ShiftDate      *string `json:"shift_date" binding:"omitempty,shiftdate"`
	StartTime      *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime        *string `json:"end_time" binding:"omitempty,hhmm"`
	TargetQuantity *int    `json:"target_quantity" binding:"omitempty,min=1"`
}

type SyncShiftsRequest struct {
	Shifts []ShiftRequest `json:"shifts" binding:"required,dive"`
}

func (r SyncShiftsRequest) Inputs() []scheduler.ShiftInput {
	out := make([]scheduler.ShiftInput, len(r.Shifts))
	for i, s := range r.Shifts {
		out[i] = s.Input()
	}
	return out
}

type SyncShiftsResponse struct {
	Shifts       []database.Shift         `json:"shifts"`
	AddedCount   int                      `json:"added_count"`
	UpdatedCount int                      `json:"updated_count"`
	DeletedCount int                      `json:"deleted_count"`
	Skipped      []scheduler.SkippedShift `json:"skipped"`
}

func NewSyncShiftsResponse(res *scheduler.ShiftSyncResult) SyncShiftsResponse {
	out := SyncShiftsResponse{
		Shifts:       res.Shifts,
		AddedCount:   res.Added,
		UpdatedCount: res.Updated,
		DeletedCount: res.Deleted,
		Skipped:      res.Skipped,
	}
	if out.Shifts == nil {
		out.Shifts = []database.Shift{}
	}
	if out.Skipped == nil {
		out.Skipped = []scheduler.SkippedShift{}
	}
	return out
}

type AssignmentRequest struct {
	ShiftID string  `json:"shift_id" binding:"required"`
	UserID  string  `json:"user_id" binding:"required"`
	Notes   *string `json:"notes" binding:"omitempty,max=1000"`
}

type SyncAssignmentsRequest struct {
	Assignments []AssignmentRequest `json:"assignments" binding:"required,dive"`
}

func (r SyncAssignmentsRequest) Inputs() []scheduler.AssignmentInput {
	out := make([]scheduler.AssignmentInput, len(r.Assignments))
	for i, a := range r.Assignments {
		out[i] = scheduler.AssignmentInput{ShiftID: a.ShiftID, UserID: a.UserID, Notes: a.Notes}
	}
	return out
}

type AssignRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type BulkAssignRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,dive,required"`
}

type UpdateAssignmentStatusRequest struct {
	Status         *string `json:"status"`
	ActualQuantity *int    `json:"actual_quantity" binding:"omitempty,min=0"`
	Notes          *string `json:"notes" binding:"omitempty,max=1000"`
}

func (r UpdateAssignmentStatusRequest) Update() scheduler.StatusUpdate {
	return scheduler.StatusUpdate{Status: r.Status, ActualQuantity: r.ActualQuantity, Notes: r.Notes}
}

// Assignment is an assignment flattened with its shift and worker
type Assignment struct {
	ID             string                    `json:"id"`
	ShiftID        string                    `json:"shift_id"`
	ProjectID      string                    `json:"project_id"`
	UserID         string                    `json:"user_id"`
	UserName       string                    `json:"user_name"`
	ShiftDate      string                    `json:"shift_date"`
	StartTime      string                    `json:"start_time"`
	EndTime        string                    `json:"end_time"`
	Status         database.AssignmentStatus `json:"status"`
	ActualQuantity *int                      `json:"actual_quantity,omitempty"`
	Notes          *string                   `json:"notes,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      *time.Time                `json:"updated_at,omitempty"`
}

func NewAssignment(a database.WorkerAssignment) Assignment {
	out := Assignment{
		ID:             a.ID,
		ShiftID:        a.ShiftID,
		UserID:         a.UserID,
		Status:         a.Status,
		ActualQuantity: a.ActualQuantity,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.Shift != nil {
		out.ProjectID = a.Shift.ProjectID
		out.ShiftDate = a.Shift.ShiftDate
		out.StartTime = a.Shift.StartTime
		out.EndTime = a.Shift.EndTime
	}
	if a.User != nil {
		out.UserName = a.User.Name
	}
	return out
}

func NewAssignments(as []database.WorkerAssignment) []Assignment {
	out := make([]Assignment, 0, len(as))
	for _, a := range as {
		out = append(out, NewAssignment(a))
	}
	return out
}

func skippedOrEmpty(s []scheduler.SkippedAssignment) []scheduler.SkippedAssignment {
	if s == nil {
		return []scheduler.SkippedAssignment{}
	}
	return s
}

type SyncAssignmentsResponse struct {
	AddedCount   int                           `json:"added_count"`
	UpdatedCount int                           `json:"updated_count"`
	DeletedCount int                           `json:"deleted_count"`
	Assignments  []Assignment                  `json:"assignments"`
	Skipped      []scheduler.SkippedAssignment `json:"skipped"`
}

func NewSyncAssignmentsResponse(res *scheduler.AssignmentSyncResult) SyncAssignmentsResponse {
	return SyncAssignmentsResponse{
		AddedCount:   res.Added,
		UpdatedCount: res.Updated,
		DeletedCount: res.Deleted,
		Assignments:  NewAssignments(res.Current),
		Skipped:      skippedOrEmpty(res.Skipped),
	}
}

type BulkAssignResponse struct {
	CreatedCount int                           `json:"created_count"`
	Created      []Assignment                  `json:"created"`
	Skipped      []scheduler.SkippedAssignment `json:"skipped"`
	Assignments  []Assignment                  `json:"assignments"`
}

func NewBulkAssignResponse(res *scheduler.BulkAssignResult) BulkAssignResponse {
	return BulkAssignResponse{
		CreatedCount: len(res.Created),
		Created:      NewAssignments(res.Created),
		Skipped:      skippedOrEmpty(res.Skipped),
		Assignments:  NewAssignments(res.Assignments),
	}
}
