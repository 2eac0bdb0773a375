package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

// ShiftStore persists shifts scoped to a project
type ShiftStore struct {
	db *gorm.DB
}

func (s *ShiftStore) GetByID(ctx context.Context, id string) (*database.Shift, error) {
	var shift database.Shift
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &shift); err != nil {
		return nil, err
	}
	return &shift, nil
}

// GetByProjectID returns the project's shifts ordered by date then start time
func (s *ShiftStore) GetByProjectID(ctx context.Context, projectID string, dates *DateRange) ([]database.Shift, error) {
	var shifts []database.Shift
	q := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	q = dates.apply(q, "shift_date")
	err := q.Order("shift_date ASC, start_time ASC").Find(&shifts).Error
	return shifts, err
}

// GetFutureByProjectID returns shifts dated today or later. Dates are zero-padded
// YYYY-MM-DD so the string comparison is a date comparison.
func (s *ShiftStore) GetFutureByProjectID(ctx context.Context, projectID, today string) ([]database.Shift, error) {
	return s.GetByProjectID(ctx, projectID, &DateRange{From: today})
}

// GetByOrganization returns shifts of every project in the organization,
// ordered by date then start time
func (s *ShiftStore) GetByOrganization(ctx context.Context, orgID string, dates *DateRange) ([]database.Shift, error) {
	var shifts []database.Shift
	q := s.db.WithContext(ctx).Model(&database.Shift{}).
		Joins("JOIN projects ON projects.id = shifts.project_id").
		Where("projects.organization_id = ?", orgID)
	q = dates.apply(q, "shifts.shift_date")
	err := q.Order("shifts.shift_date ASC, shifts.start_time ASC").Find(&shifts).Error
	return shifts, err
}

// GetByIDs returns the shifts with the given ids belonging to projectID
func (s *ShiftStore) GetByIDs(ctx context.Context, projectID string, ids []string) ([]database.Shift, error) {
	var shifts []database.Shift
	if len(ids) == 0 {
		return shifts, nil
	}
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND id IN ?", projectID, ids).
		Find(&shifts).Error
	return shifts, err
}

func (s *ShiftStore) Add(ctx context.Context, shift *database.Shift) error {
	return s.db.WithContext(ctx).Omit("Assignments").Create(shift).Error
}

func (s *ShiftStore) AddRange(ctx context.Context, shifts []database.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Assignments").Create(&shifts).Error
}

func (s *ShiftStore) Update(ctx context.Context, shift *database.Shift) error {
	return s.db.WithContext(ctx).Model(shift).Select("shift_date", "start_time", "end_time", "target_quantity").
		Updates(shift).Error
}

func (s *ShiftStore) Delete(ctx context.Context, id string) error {
	return s.DeleteRange(ctx, []string{id})
}

// DeleteRange removes shifts and the assignments that reference them
func (s *ShiftStore) DeleteRange(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	db := s.db.WithContext(ctx)
	if err := db.Where("shift_id IN ?", ids).Delete(&database.WorkerAssignment{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&database.Shift{}).Error
}
