package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

type OrganizationStore struct {
	db *gorm.DB
}

func (s *OrganizationStore) GetByID(ctx context.Context, id string) (*database.Organization, error) {
	var o database.Organization
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrganizationStore) GetByJoinCode(ctx context.Context, code string) (*database.Organization, error) {
	var o database.Organization
	if err := first(s.db.WithContext(ctx).Where("join_code = ?", code), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrganizationStore) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&database.Organization{}).Where("join_code = ?", code).Count(&n).Error
	return n > 0, err
}

// ListForUser returns organizations where userID holds an active membership
func (s *OrganizationStore) ListForUser(ctx context.Context, userID string) ([]database.Organization, error) {
	var out []database.Organization
	err := s.db.WithContext(ctx).
		Joins("JOIN organization_memberships m ON m.organization_id = organizations.id").
		Where("m.user_id = ? AND m.status = ?", userID, database.MemberActive).
		Order("organizations.name ASC").
		Find(&out).Error
	return out, err
}

func (s *OrganizationStore) Add(ctx context.Context, o *database.Organization) error {
	return s.db.WithContext(ctx).Omit("Projects", "Memberships").Create(o).Error
}

func (s *OrganizationStore) Update(ctx context.Context, o *database.Organization) error {
	return s.db.WithContext(ctx).Omit("Projects", "Memberships", "created_at").Save(o).Error
}

type MembershipStore struct {
	db *gorm.DB
}

func (s *MembershipStore) Get(ctx context.Context, orgID, userID string) (*database.OrganizationMembership, error) {
	var m database.OrganizationMembership
	q := s.db.WithContext(ctx).Preload("User").Where("organization_id = ? AND user_id = ?", orgID, userID)
	if err := first(q, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MembershipStore) ListByOrganization(ctx context.Context, orgID string) ([]database.OrganizationMembership, error) {
	var out []database.OrganizationMembership
	err := s.db.WithContext(ctx).Preload("User").
		Where("organization_id = ?", orgID).
		Order("joined_at ASC").
		Find(&out).Error
	return out, err
}

func (s *MembershipStore) Add(ctx context.Context, m *database.OrganizationMembership) error {
	return s.db.WithContext(ctx).Omit("User").Create(m).Error
}

func (s *MembershipStore) Update(ctx context.Context, m *database.OrganizationMembership) error {
	return s.db.WithContext(ctx).Omit("User", "joined_at").Save(m).Error
}

func (s *MembershipStore) Delete(ctx context.Context, orgID, userID string) error {
	return s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&database.OrganizationMembership{}).Error
}

type JoinRequestStore struct {
	db *gorm.DB
}

func (s *JoinRequestStore) GetByID(ctx context.Context, id string) (*database.JoinRequest, error) {
	var r database.JoinRequest
	if err := first(s.db.WithContext(ctx).Preload("User").Where("id = ?", id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *JoinRequestStore) HasPending(ctx context.Context, orgID, userID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&database.JoinRequest{}).
		Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, database.JoinPending).
		Count(&n).Error
	return n > 0, err
}

func (s *JoinRequestStore) ListPending(ctx context.Context, orgID string) ([]database.JoinRequest, error) {
	var out []database.JoinRequest
	err := s.db.WithContext(ctx).Preload("User").
		Where("organization_id = ? AND status = ?", orgID, database.JoinPending).
		Order("requested_at ASC").
		Find(&out).Error
	return out, err
}

func (s *JoinRequestStore) Add(ctx context.Context, r *database.JoinRequest) error {
	return s.db.WithContext(ctx).Omit("Organization", "User").Create(r).Error
}

func (s *JoinRequestStore) Update(ctx context.Context, r *database.JoinRequest) error {
	return s.db.WithContext(ctx).Omit("Organization", "User").Save(r).Error
}
