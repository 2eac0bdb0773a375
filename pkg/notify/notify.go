// Package notify persists user notifications and serves the inbox.
package notify

import (
	"context"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const TypeGeneral = "General"

// Service stores notifications for later reading by the recipient
type Service struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewService(st *store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log}
}

// Send stores one notification for userID
func (s *Service) Send(ctx context.Context, userID, title, message string) error {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", userID)
		}
		return errors.Wrap(err, "load notification recipient")
	}

	n := &database.Notification{UserID: userID, Type: TypeGeneral, Title: title, Message: message}
	if err := s.store.Notifications.Add(ctx, n); err != nil {
		return errors.Wrap(err, "insert notification")
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "title": title}).Debug("notification stored")
	return nil
}

// SendBulk stores the same notification for every known user in userIDs
func (s *Service) SendBulk(ctx context.Context, userIDs []string, title, message string) error {
	known, err := s.store.Users.ExistingIDs(ctx, userIDs)
	if err != nil {
		return errors.Wrap(err, "load notification recipients")
	}

	seen := make(map[string]bool, len(userIDs))
	var batch []database.Notification
	for _, id := range userIDs {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		batch = append(batch, database.Notification{UserID: id, Type: TypeGeneral, Title: title, Message: message})
	}
	if err := s.store.Notifications.AddRange(ctx, batch); err != nil {
		return errors.Wrap(err, "insert notifications")
	}
	s.log.WithFields(logrus.Fields{"recipients": len(batch), "title": title}).Debug("bulk notification stored")
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]database.Notification, error) {
	out, err := s.store.Notifications.ListByUser(ctx, userID)
	return out, errors.Wrap(err, "list notifications")
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Notifications.UnreadCount(ctx, userID)
	return n, errors.Wrap(err, "count unread notifications")
}

// MarkRead flags one of userID's notifications as read
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.store.Notifications.GetByID(ctx, notificationID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && n.UserID != userID) {
		return apperr.NotFound(apperr.CodeNotificationNotFound, "notification %s not found", notificationID)
	}
	if err != nil {
		return errors.Wrap(err, "load notification")
	}
	return errors.Wrap(s.store.Notifications.MarkRead(ctx, n.ID), "mark notification read")
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Notifications.MarkAllRead(ctx, userID)
	return n, errors.Wrap(err, "mark notifications read")
}
