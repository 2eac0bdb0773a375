package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

// AssignmentStore persists worker-to-shift links. Reads preload the shift and
// user so callers can render dates and names without extra queries.
type AssignmentStore struct {
	db *gorm.DB
}

func (s *AssignmentStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&database.WorkerAssignment{}).Preload("Shift").Preload("User")
}

func (s *AssignmentStore) GetByID(ctx context.Context, id string) (*database.WorkerAssignment, error) {
	var a database.WorkerAssignment
	if err := first(s.query(ctx).Where("worker_assignments.id = ?", id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AssignmentStore) GetByShiftID(ctx context.Context, shiftID string) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	err := s.query(ctx).Where("shift_id = ?", shiftID).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (s *AssignmentStore) GetByShiftIDs(ctx context.Context, shiftIDs []string) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	if len(shiftIDs) == 0 {
		return out, nil
	}
	err := s.query(ctx).Where("shift_id IN ?", shiftIDs).Order("created_at ASC").Find(&out).Error
	return out, err
}

// GetByProjectID joins through shifts and returns the newest assignments first
func (s *AssignmentStore) GetByProjectID(ctx context.Context, projectID string) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	err := s.query(ctx).
		Joins("JOIN shifts ON shifts.id = worker_assignments.shift_id").
		Where("shifts.project_id = ?", projectID).
		Order("worker_assignments.created_at DESC").
		Find(&out).Error
	return out, err
}

// GetByUserID returns a worker's assignments across all projects by shift date
func (s *AssignmentStore) GetByUserID(ctx context.Context, userID string, dates *DateRange) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	q := s.query(ctx).
		Joins("JOIN shifts ON shifts.id = worker_assignments.shift_id").
		Where("worker_assignments.user_id = ?", userID)
	q = dates.apply(q, "shifts.shift_date")
	err := q.Order("shifts.shift_date ASC, shifts.start_time ASC").Find(&out).Error
	return out, err
}

func (s *AssignmentStore) GetByProjectAndUser(ctx context.Context, projectID, userID string) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	err := s.query(ctx).
		Joins("JOIN shifts ON shifts.id = worker_assignments.shift_id").
		Where("shifts.project_id = ? AND worker_assignments.user_id = ?", projectID, userID).
		Order("shifts.shift_date ASC").
		Find(&out).Error
	return out, err
}

func (s *AssignmentStore) GetByShiftAndUser(ctx context.Context, shiftID, userID string) (*database.WorkerAssignment, error) {
	var a database.WorkerAssignment
	if err := first(s.query(ctx).Where("shift_id = ? AND user_id = ?", shiftID, userID), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByOrganization returns assignments on shifts of the organization's projects
// with an optional status filter and shift date range
func (s *AssignmentStore) GetByOrganization(ctx context.Context, orgID string, status database.AssignmentStatus, dates *DateRange) ([]database.WorkerAssignment, error) {
	var out []database.WorkerAssignment
	q := s.query(ctx).
		Joins("JOIN shifts ON shifts.id = worker_assignments.shift_id").
		Joins("JOIN projects ON projects.id = shifts.project_id").
		Where("projects.organization_id = ?", orgID)
	if status != "" {
		q = q.Where("worker_assignments.status = ?", status)
	}
	q = dates.apply(q, "shifts.shift_date")
	err := q.Order("shifts.shift_date ASC, shifts.start_time ASC").Find(&out).Error
	return out, err
}

// CountByShift returns the number of assignments per shift id. Shifts without
// assignments are absent from the map.
func (s *AssignmentStore) CountByShift(ctx context.Context, shiftIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(shiftIDs))
	if len(shiftIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ShiftID string
		Total   int
	}
	err := s.db.WithContext(ctx).Model(&database.WorkerAssignment{}).
		Select("shift_id, COUNT(*) AS total").
		Where("shift_id IN ?", shiftIDs).
		Group("shift_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ShiftID] = r.Total
	}
	return counts, nil
}

func (s *AssignmentStore) Add(ctx context.Context, a *database.WorkerAssignment) error {
	return s.db.WithContext(ctx).Omit("Shift", "User").Create(a).Error
}

func (s *AssignmentStore) AddRange(ctx context.Context, as []database.WorkerAssignment) error {
	if len(as) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Shift", "User").Create(&as).Error
}

func (s *AssignmentStore) Update(ctx context.Context, a *database.WorkerAssignment) error {
	return s.db.WithContext(ctx).Model(a).
		Select("status", "actual_quantity", "notes", "updated_at").
		Omit("Shift", "User").
		Updates(a).Error
}

func (s *AssignmentStore) Delete(ctx context.Context, id string) error {
	return s.DeleteRange(ctx, []string{id})
}

func (s *AssignmentStore) DeleteRange(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&database.WorkerAssignment{}).Error
}

func (s *AssignmentStore) DeleteByShiftIDs(ctx context.Context, shiftIDs []string) error {
	if len(shiftIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("shift_id IN ?", shiftIDs).Delete(&database.WorkerAssignment{}).Error
}
