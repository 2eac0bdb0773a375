// Package users reads and edits user profiles.
package users

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	MaxNameLength = 100
	dateLayout    = "2006-01-02"
)

var validate = validator.New()

type Service struct {
	store *store.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(st *store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

func (s *Service) load(ctx context.Context, userID string) (*database.User, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", userID)
	}
	return u, errors.Wrap(err, "load user")
}

// Profile returns the caller's own user
func (s *Service) Profile(ctx context.Context, userID string) (*database.User, error) {
	return s.load(ctx, userID)
}

// Get returns another user when the caller shares an organization with them.
// Users outside the caller's organizations read as not found.
func (s *Service) Get(ctx context.Context, actorID, userID string) (*database.User, error) {
	if actorID == userID {
		return s.load(ctx, userID)
	}
	shared, err := s.store.Users.ShareOrganization(ctx, actorID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "check shared organization")
	}
	if !shared {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", userID)
	}
	return s.load(ctx, userID)
}

// ProfileInput carries the editable fields. Nil or empty values keep the
// stored value; DateOfBirth is YYYY-MM-DD.
type ProfileInput struct {
	Name        *string
	Email       *string
	DateOfBirth *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*database.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			if utf8.RuneCountInString(name) > MaxNameLength {
				return nil, apperr.Validation(apperr.CodeValidationFailed, "name must not exceed %d characters", MaxNameLength)
			}
			u.Name = name
		}
	}
	if in.Email != nil {
		if email := strings.TrimSpace(*in.Email); email != "" {
			if err := validate.Var(email, "email"); err != nil {
				return nil, apperr.Validation(apperr.CodeValidationFailed, "invalid email format")
			}
			u.Email = &email
		}
	}
	if in.DateOfBirth != nil && *in.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, *in.DateOfBirth)
		if err != nil {
			return nil, apperr.Validation(apperr.CodeValidationFailed, "date_of_birth must be YYYY-MM-DD")
		}
		if dob.After(s.now().UTC()) {
			return nil, apperr.Validation(apperr.CodeValidationFailed, "date_of_birth must not be in the future")
		}
		u.DateOfBirth = &dob
	}
	now := s.now().UTC()
	u.UpdatedAt = &now

	if err := s.store.Users.UpdateProfile(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	s.log.WithField("user_id", u.ID).Info("profile updated")
	return u, nil
}
