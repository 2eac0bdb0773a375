package scheduler

import (
	"context"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ShiftInput is one desired shift. An empty ID asks for a new shift.
type ShiftInput struct {
	ID             string
	ShiftDate      string
	StartTime      string
	EndTime        string
	TargetQuantity *int
}

type SkippedShift struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ShiftSyncResult struct {
	Shifts  []database.Shift
	Added   int
	Updated int
	Deleted int
	Skipped []SkippedShift
}

// ValidateShiftInput checks the stored text formats the date filters rely on
func ValidateShiftInput(i int, in ShiftInput) error {
	if !ValidDate(in.ShiftDate) {
		return apperr.Validation(apperr.CodeValidationFailed, "shifts[%d]: shift_date %q is not YYYY-MM-DD", i, in.ShiftDate)
	}
	if !ValidClock(in.StartTime) {
		return apperr.Validation(apperr.CodeValidationFailed, "shifts[%d]: start_time %q is not HH:mm", i, in.StartTime)
	}
	if !ValidClock(in.EndTime) {
		return apperr.Validation(apperr.CodeValidationFailed, "shifts[%d]: end_time %q is not HH:mm", i, in.EndTime)
	}
	if in.TargetQuantity != nil && *in.TargetQuantity <= 0 {
		return apperr.Validation(apperr.CodeValidationFailed, "shifts[%d]: target_quantity must be greater than 0", i)
	}
	return nil
}

// SyncShifts replaces the project's shifts with desired. Items with a known id
// are updated in place, items without an id are inserted, and existing shifts
// left out of desired are deleted along with their assignments. Items naming an
// id the project does not have are skipped. Repeated ids resolve to the last one.
func (s *Scheduler) SyncShifts(ctx context.Context, projectID string, desired []ShiftInput) (res *ShiftSyncResult, err error) {
	started := time.Now()
	defer func() {
		if res != nil {
			s.metrics.ObserveSync(metrics.KindShifts, res.Added, res.Updated, res.Deleted, nil, started)
		} else {
			s.metrics.ObserveSync(metrics.KindShifts, 0, 0, 0, err, started)
		}
	}()

	if _, err := s.store.Projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, apperr.CodeProjectNotFound, "project %s not found", projectID)
	}
	for i, in := range desired {
		if err := ValidateShiftInput(i, in); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.Shifts.GetByProjectID(ctx, projectID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "load project shifts")
	}

	var withID, withoutID []ShiftInput
	for _, in := range desired {
		if in.ID == "" {
			withoutID = append(withoutID, in)
		} else {
			withID = append(withID, in)
		}
	}

	idx := indexByKey(withID, func(in ShiftInput) string { return in.ID }, true)
	p := reconcile(existing, func(sh database.Shift) string { return sh.ID }, idx)

	result := &ShiftSyncResult{}
	for _, in := range p.extra {
		result.Skipped = append(result.Skipped, SkippedShift{ID: in.ID, Reason: ReasonShiftNotFound})
	}

	updates := make([]database.Shift, 0, len(p.matched))
	for _, m := range p.matched {
		sh := m.existing
		sh.ShiftDate = m.desired.ShiftDate
		sh.StartTime = m.desired.StartTime
		sh.EndTime = m.desired.EndTime
		sh.TargetQuantity = m.desired.TargetQuantity
		updates = append(updates, sh)
	}

	inserts := make([]database.Shift, 0, len(withoutID))
	for _, in := range withoutID {
		inserts = append(inserts, database.Shift{
			ProjectID:      projectID,
			ShiftDate:      in.ShiftDate,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
			TargetQuantity: in.TargetQuantity,
		})
	}

	deletes := make([]string, 0, len(p.missing))
	for _, sh := range p.missing {
		deletes = append(deletes, sh.ID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Shifts.DeleteRange(ctx, deletes); err != nil {
			return errors.Wrap(err, "delete shifts")
		}
		if err := tx.Shifts.AddRange(ctx, inserts); err != nil {
			return errors.Wrap(err, "insert shifts")
		}
		for i := range updates {
			if err := tx.Shifts.Update(ctx, &updates[i]); err != nil {
				return errors.Wrap(err, "update shift")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Added = len(inserts)
	result.Updated = len(updates)
	result.Deleted = len(deletes)

	s.log.WithFields(logrus.Fields{
		"project_id": projectID,
		"added":      result.Added,
		"updated":    result.Updated,
		"deleted":    result.Deleted,
		"skipped":    len(result.Skipped),
	}).Info("shifts synced")

	shifts, err := s.store.Shifts.GetByProjectID(afterCommit(ctx), projectID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reload project shifts")
	}
	result.Shifts = shifts
	return result, nil
}
