package reports

import (
	"context"
	"sort"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const recentAssignments = 5

type DashboardStats struct {
	TotalProjects      int `json:"total_projects"`
	ActiveProjects     int `json:"active_projects"`
	TotalWorkers       int `json:"total_workers"`
	ActiveWorkers      int `json:"active_workers"`
	TotalShifts        int `json:"total_shifts"`
	UpcomingShifts     int `json:"upcoming_shifts"`
	CompletedShifts    int `json:"completed_shifts"`
	PendingAssignments int `json:"pending_assignments"`
}

// Stats counts the organization's projects, members, shifts and open assignments.
// A shift counts as completed once any of its assignments is Completed.
func (s *Service) Stats(ctx context.Context, orgID string) (*DashboardStats, error) {
	if _, err := s.organization(ctx, orgID); err != nil {
		return nil, err
	}
	projects, err := s.store.Projects.AllByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "load projects")
	}
	members, err := s.store.Memberships.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "load members")
	}
	shifts, err := s.store.Shifts.GetByOrganization(ctx, orgID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "load shifts")
	}
	assignments, err := s.store.Assignments.GetByOrganization(ctx, orgID, "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "load assignments")
	}

	out := &DashboardStats{
		TotalProjects: len(projects),
		TotalWorkers:  len(members),
		TotalShifts:   len(shifts),
	}
	for _, p := range projects {
		if p.ContractStatus == database.ContractActive {
			out.ActiveProjects++
		}
	}
	for _, m := range members {
		if m.Status == database.MemberActive {
			out.ActiveWorkers++
		}
	}
	today := scheduler.Today(s.now())
	for _, sh := range shifts {
		if sh.ShiftDate >= today {
			out.UpcomingShifts++
		}
	}
	completed := make(map[string]bool)
	for _, a := range assignments {
		switch a.Status {
		case database.StatusPending:
			out.PendingAssignments++
		case database.StatusCompleted:
			completed[a.ShiftID] = true
		}
	}
	out.CompletedShifts = len(completed)
	return out, nil
}

type TodayShift struct {
	ShiftID         string `json:"shift_id"`
	ProjectName     string `json:"project_name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	AssignedWorkers int    `json:"assigned_workers"`
}

// TodayShifts lists the organization's shifts dated today (UTC)
func (s *Service) TodayShifts(ctx context.Context, orgID string) ([]TodayShift, error) {
	if _, err := s.organization(ctx, orgID); err != nil {
		return nil, err
	}
	today := scheduler.Today(s.now())
	shifts, err := s.store.Shifts.GetByOrganization(ctx, orgID, &store.DateRange{From: today, To: today})
	if err != nil {
		return nil, errors.Wrap(err, "load shifts")
	}
	projects, err := s.store.Projects.AllByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "load projects")
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	counts, err := s.assignedCounts(ctx, shifts)
	if err != nil {
		return nil, err
	}

	out := make([]TodayShift, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, TodayShift{
			ShiftID:         sh.ID,
			ProjectName:     names[sh.ProjectID],
			StartTime:       sh.StartTime,
			EndTime:         sh.EndTime,
			AssignedWorkers: counts[sh.ID],
		})
	}
	return out, nil
}

type WorkerDashboard struct {
	UpcomingShifts     int                         `json:"upcoming_shifts"`
	CompletedShifts    int                         `json:"completed_shifts"`
	TotalEarnings      decimal.Decimal             `json:"total_earnings"`
	PendingAssignments int                         `json:"pending_assignments"`
	RecentAssignments  []database.WorkerAssignment `json:"recent_assignments"`
}

// WorkerDashboard summarizes one worker's assignments in the organization.
// Upcoming covers Pending, Assigned and Accepted assignments dated today or later.
func (s *Service) WorkerDashboard(ctx context.Context, orgID, userID string) (*WorkerDashboard, error) {
	org, err := s.organization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	r, err := s.loadRates(ctx, org)
	if err != nil {
		return nil, err
	}
	all, err := s.store.Assignments.GetByUserID(ctx, userID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "load assignments")
	}

	var mine []database.WorkerAssignment
	for _, a := range all {
		if a.Shift == nil {
			continue
		}
		if _, ok := r.projects[a.Shift.ProjectID]; ok {
			mine = append(mine, a)
		}
	}

	today := scheduler.Today(s.now())
	out := &WorkerDashboard{}
	earned := &WorkerPay{UserID: userID}
	for _, a := range mine {
		switch a.Status {
		case database.StatusPending, database.StatusAssigned, database.StatusAccepted:
			if a.Shift.ShiftDate >= today {
				out.UpcomingShifts++
			}
			if a.Status == database.StatusPending {
				out.PendingAssignments++
			}
		case database.StatusCompleted:
			out.CompletedShifts++
			if err := r.earn(earned, a); err != nil {
				return nil, err
			}
		}
	}
	out.TotalEarnings = earned.Earnings.Round(2)

	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if len(mine) > recentAssignments {
		mine = mine[:recentAssignments]
	}
	out.RecentAssignments = mine
	if out.RecentAssignments == nil {
		out.RecentAssignments = []database.WorkerAssignment{}
	}
	return out, nil
}
