package scheduler

import (
	"context"
	"fmt"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GateTriggered reports whether moving a project from old to next must clear its
// future assignments
func GateTriggered(old, next database.ContractStatus) bool {
	if old != database.ContractActive {
		return false
	}
	switch next {
	case database.ContractPaused, database.ContractExpired, database.ContractCancelled:
		return true
	}
	return false
}

type GateResult struct {
	Shifts     int
	Unassigned int
	Notified   int
}

func cancelledMessage(projectName string, dates []string) string {
	if len(dates) == 1 {
		return fmt.Sprintf("Your shift on %s for project %s has been cancelled because the project is no longer active.", dates[0], projectName)
	}
	return fmt.Sprintf("%d of your upcoming shifts for project %s have been cancelled because the project is no longer active.", len(dates), projectName)
}

// GateRun holds what ClearFutureAssignments removed until the surrounding
// transaction commits and Notify can tell the affected workers
type GateRun struct {
	projectID   string
	today       string
	result      GateResult
	order       []string
	datesByUser map[string][]string
}

// UnassignFutureProjectShifts deletes every assignment on the project's shifts
// dated today (UTC) or later and sends each affected worker one aggregate notice
func (s *Scheduler) UnassignFutureProjectShifts(ctx context.Context, projectID, projectName string) (*GateResult, error) {
	var run *GateRun
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		run, err = s.ClearFutureAssignments(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Notify(ctx, run, projectName), nil
}

// ClearFutureAssignments runs the deleting half of the status gate on tx. The
// caller owns the transaction and must call Notify once it has committed.
func (s *Scheduler) ClearFutureAssignments(ctx context.Context, tx *store.Store, projectID string) (*GateRun, error) {
	run := &GateRun{
		projectID:   projectID,
		today:       Today(s.now()),
		datesByUser: make(map[string][]string),
	}

	shifts, err := tx.Shifts.GetFutureByProjectID(ctx, projectID, run.today)
	if err != nil {
		return nil, errors.Wrap(err, "load future shifts")
	}
	run.result.Shifts = len(shifts)
	if len(shifts) == 0 {
		return run, nil
	}

	dateByShift := make(map[string]string, len(shifts))
	shiftIDs := make([]string, 0, len(shifts))
	for _, sh := range shifts {
		dateByShift[sh.ID] = sh.ShiftDate
		shiftIDs = append(shiftIDs, sh.ID)
	}

	assignments, err := tx.Assignments.GetByShiftIDs(ctx, shiftIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load future assignments")
	}
	if len(assignments) == 0 {
		return run, nil
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, seen := run.datesByUser[a.UserID]; !seen {
			run.order = append(run.order, a.UserID)
		}
		run.datesByUser[a.UserID] = append(run.datesByUser[a.UserID], dateByShift[a.ShiftID])
		ids = append(ids, a.ID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := tx.Assignments.DeleteRange(ctx, ids); err != nil {
		return nil, errors.Wrap(err, "delete future assignments")
	}
	run.result.Unassigned = len(ids)
	return run, nil
}

// Notify sends the cancellation notices for a committed run. Delivery failures
// are logged and counted, never returned.
func (s *Scheduler) Notify(ctx context.Context, run *GateRun, projectName string) *GateResult {
	res := run.result
	if res.Unassigned > 0 {
		s.metrics.UnassignedByGate(res.Unassigned)
	}

	post := afterCommit(ctx)
	for _, userID := range run.order {
		if s.notify(post, userID, TitleCancelled, cancelledMessage(projectName, run.datesByUser[userID])) {
			res.Notified++
		}
	}

	s.log.WithFields(logrus.Fields{
		"project_id": run.projectID,
		"today":      run.today,
		"shifts":     res.Shifts,
		"unassigned": res.Unassigned,
		"users":      len(run.order),
	}).Info("future assignments cleared by status gate")
	return &res
}
