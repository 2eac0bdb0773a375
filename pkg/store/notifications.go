package store

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"gorm.io/gorm"
)

type NotificationStore struct {
	db *gorm.DB
}

func (s *NotificationStore) GetByID(ctx context.Context, id string) (*database.Notification, error) {
	var n database.Notification
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns a user's notifications newest first
func (s *NotificationStore) ListByUser(ctx context.Context, userID string) ([]database.Notification, error) {
	var out []database.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *NotificationStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&database.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (s *NotificationStore) Add(ctx context.Context, n *database.Notification) error {
	return s.db.WithContext(ctx).Omit("User").Create(n).Error
}

func (s *NotificationStore) AddRange(ctx context.Context, ns []database.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit("User").Create(&ns).Error
}

func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&database.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&database.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
