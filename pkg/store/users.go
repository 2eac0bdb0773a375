package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*database.User, error) {
	var u database.User
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (*database.User, error) {
	var u database.User
	if err := first(s.db.WithContext(ctx).Where("phone = ?", phone), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistingIDs returns the subset of ids that name a stored user
func (s *UserStore) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []string
	if err := s.db.WithContext(ctx).Model(&database.User{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}

func (s *UserStore) Add(ctx context.Context, u *database.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// UpdateProfile writes the editable profile columns of u
func (s *UserStore) UpdateProfile(ctx context.Context, u *database.User) error {
	return s.db.WithContext(ctx).Model(u).
		Select("name", "email", "date_of_birth", "updated_at").
		Updates(u).Error
}

// BumpTokenVersion invalidates every refresh token issued to the user
func (s *UserStore) BumpTokenVersion(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ShareOrganization reports whether both users belong to at least one common organization
func (s *UserStore) ShareOrganization(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("organization_memberships AS m1").
		Joins("JOIN organization_memberships AS m2 ON m2.organization_id = m1.organization_id").
		Where("m1.user_id = ? AND m2.user_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}
