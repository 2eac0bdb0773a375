package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

type ProjectStore struct {
	db *gorm.DB
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*database.Project, error) {
	var p database.Project
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetInOrganization returns the project only when it belongs to orgID
func (s *ProjectStore) GetInOrganization(ctx context.Context, orgID, id string) (*database.Project, error) {
	var p database.Project
	if err := first(s.db.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOrganization pages through an organization's projects, newest first
func (s *ProjectStore) ListByOrganization(ctx context.Context, orgID string, page, pageSize int) ([]database.Project, int64, error) {
	var (
		out   []database.Project
		total int64
	)
	q := s.db.WithContext(ctx).Model(&database.Project{}).Where("organization_id = ?", orgID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error
	return out, total, err
}

// AllByOrganization returns every project of the organization ordered by name
func (s *ProjectStore) AllByOrganization(ctx context.Context, orgID string) ([]database.Project, error) {
	var out []database.Project
	err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("name ASC").Find(&out).Error
	return out, err
}

func (s *ProjectStore) Add(ctx context.Context, p *database.Project) error {
	return s.db.WithContext(ctx).Omit("Shifts").Create(p).Error
}

func (s *ProjectStore) Update(ctx context.Context, p *database.Project) error {
	return s.db.WithContext(ctx).Omit("Shifts", "created_at").Save(p).Error
}

// Delete removes the project together with its shifts and their assignments
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	shiftIDs := db.Model(&database.Shift{}).Select("id").Where("project_id = ?", id)
	if err := db.Where("shift_id IN (?)", shiftIDs).Delete(&database.WorkerAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("project_id = ?", id).Delete(&database.Shift{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&database.Project{}).Error
}
