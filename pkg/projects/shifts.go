package projects

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Shifts lists a project's shifts, optionally bounded by shift date
func (s *Service) Shifts(ctx context.Context, projectID string, dates *store.DateRange) ([]database.Shift, error) {
	if _, err := s.Lookup(ctx, projectID); err != nil {
		return nil, err
	}
	if dates != nil {
		for _, d := range []string{dates.From, dates.To} {
			if d != "" && !scheduler.ValidDate(d) {
				return nil, apperr.Validation(apperr.CodeValidationFailed, "date %q is not YYYY-MM-DD", d)
			}
		}
	}
	out, err := s.store.Shifts.GetByProjectID(ctx, projectID, dates)
	return out, errors.Wrap(err, "list shifts")
}

func (s *Service) CreateShift(ctx context.Context, projectID string, in scheduler.ShiftInput) (*database.Shift, error) {
	if _, err := s.Lookup(ctx, projectID); err != nil {
		return nil, err
	}
	if err := scheduler.ValidateShiftInput(0, in); err != nil {
		return nil, err
	}
	sh := &database.Shift{
		ProjectID:      projectID,
		ShiftDate:      in.ShiftDate,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		TargetQuantity: in.TargetQuantity,
	}
	if err := s.store.Shifts.Add(ctx, sh); err != nil {
		return nil, errors.Wrap(err, "insert shift")
	}
	s.log.WithFields(logrus.Fields{"project_id": projectID, "shift_id": sh.ID}).Info("shift created")
	return sh, nil
}

func (s *Service) shiftInProject(ctx context.Context, projectID, shiftID string) (*database.Shift, error) {
	sh, err := s.store.Shifts.GetByID(ctx, shiftID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && sh.ProjectID != projectID) {
		return nil, apperr.NotFound(apperr.CodeShiftNotFound, "shift %s not found in project %s", shiftID, projectID)
	}
	return sh, errors.Wrap(err, "load shift")
}

type ShiftPatch struct {
	ShiftDate      *string
	StartTime      *string
	EndTime        *string
	TargetQuantity *int
}

func (s *Service) UpdateShift(ctx context.Context, projectID, shiftID string, in ShiftPatch) (*database.Shift, error) {
	sh, err := s.shiftInProject(ctx, projectID, shiftID)
	if err != nil {
		return nil, err
	}
	if in.ShiftDate != nil {
		sh.ShiftDate = *in.ShiftDate
	}
	if in.StartTime != nil {
		sh.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		sh.EndTime = *in.EndTime
	}
	if in.TargetQuantity != nil {
		sh.TargetQuantity = in.TargetQuantity
	}
	check := scheduler.ShiftInput{ShiftDate: sh.ShiftDate, StartTime: sh.StartTime, EndTime: sh.EndTime, TargetQuantity: sh.TargetQuantity}
	if err := scheduler.ValidateShiftInput(0, check); err != nil {
		return nil, err
	}
	if err := s.store.Shifts.Update(ctx, sh); err != nil {
		return nil, errors.Wrap(err, "update shift")
	}
	return sh, nil
}

// DeleteShift removes the shift and its assignments
func (s *Service) DeleteShift(ctx context.Context, projectID, shiftID string) error {
	if _, err := s.shiftInProject(ctx, projectID, shiftID); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Shifts.Delete(ctx, shiftID)
	})
	return errors.Wrap(err, "delete shift")
}
