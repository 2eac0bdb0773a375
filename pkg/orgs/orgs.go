// Package orgs manages organizations, their members and join requests.
package orgs

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength   = 8
	joinCodeAttempts = 10
)

// Notifier is the slice of the notification sink used for join outcomes
type Notifier interface {
	Send(ctx context.Context, userID, title, message string) error
}

type Service struct {
	store    *store.Store
	notifier Notifier
	log      logrus.FieldLogger
}

func NewService(st *store.Store, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{store: st, notifier: notifier, log: log}
}

// GenerateJoinCode returns a random code from an alphabet without look-alike characters
func GenerateJoinCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < joinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "read random")
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *Service) uniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := GenerateJoinCode()
		if err != nil {
			return "", err
		}
		taken, err := s.store.Organizations.JoinCodeExists(ctx, code)
		if err != nil {
			return "", errors.Wrap(err, "check join code")
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique join code")
}

// RequireMember returns the actor's active membership in orgID
func (s *Service) RequireMember(ctx context.Context, orgID, userID string) (*database.OrganizationMembership, error) {
	m, err := s.store.Memberships.Get(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && m.Status != database.MemberActive) {
		return nil, apperr.Unauthorized(apperr.CodeNotAMember, "you are not a member of this organization")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load membership")
	}
	return m, nil
}

// RequireManager is RequireMember restricted to owners and admins
func (s *Service) RequireManager(ctx context.Context, orgID, userID string) (*database.OrganizationMembership, error) {
	m, err := s.RequireMember(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role != database.RoleOwner && m.Role != database.RoleAdmin {
		return nil, apperr.Forbidden(apperr.CodeInsufficientRole, "only owners and admins can do this")
	}
	return m, nil
}

type CreateInput struct {
	Name                 string
	DefaultHourlyRate    decimal.Decimal
	DefaultContainerRate decimal.Decimal
	DefaultBoxRate       decimal.Decimal
}

// Create makes a new organization owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*database.Organization, error) {
	if _, err := s.store.Users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", ownerID)
		}
		return nil, errors.Wrap(err, "load owner")
	}
	code, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	org := &database.Organization{
		Name:                 strings.TrimSpace(in.Name),
		JoinCode:             code,
		DefaultHourlyRate:    in.DefaultHourlyRate,
		DefaultContainerRate: in.DefaultContainerRate,
		DefaultBoxRate:       in.DefaultBoxRate,
		OwnerID:              ownerID,
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Organizations.Add(ctx, org); err != nil {
			return errors.Wrap(err, "insert organization")
		}
		return errors.Wrap(tx.Memberships.Add(ctx, &database.OrganizationMembership{
			OrganizationID: org.ID,
			UserID:         ownerID,
			Role:           database.RoleOwner,
			Status:         database.MemberActive,
			JoinedAt:       time.Now().UTC(),
		}), "insert owner membership")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"organization_id": org.ID, "owner_id": ownerID}).Info("organization created")
	return org, nil
}

// Get returns an organization the actor belongs to
func (s *Service) Get(ctx context.Context, orgID, actorID string) (*database.Organization, error) {
	org, err := s.store.Organizations.GetByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeOrganizationNotFound, "organization %s not found", orgID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load organization")
	}
	if _, err := s.RequireMember(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	return org, nil
}

// ListMine returns every organization where userID is an active member
func (s *Service) ListMine(ctx context.Context, userID string) ([]database.Organization, error) {
	out, err := s.store.Organizations.ListForUser(ctx, userID)
	return out, errors.Wrap(err, "list organizations")
}

type UpdateInput struct {
	Name                 *string
	DefaultHourlyRate    *decimal.Decimal
	DefaultContainerRate *decimal.Decimal
	DefaultBoxRate       *decimal.Decimal
}

// Update changes the fields that are set. Managers only.
func (s *Service) Update(ctx context.Context, orgID, actorID string, in UpdateInput) (*database.Organization, error) {
	org, err := s.Get(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.RequireManager(ctx, orgID, actorID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		org.Name = strings.TrimSpace(*in.Name)
	}
	if in.DefaultHourlyRate != nil {
		org.DefaultHourlyRate = *in.DefaultHourlyRate
	}
	if in.DefaultContainerRate != nil {
		org.DefaultContainerRate = *in.DefaultContainerRate
	}
	if in.DefaultBoxRate != nil {
		org.DefaultBoxRate = *in.DefaultBoxRate
	}
	now := time.Now().UTC()
	org.UpdatedAt = &now

	if err := s.store.Organizations.Update(ctx, org); err != nil {
		return nil, errors.Wrap(err, "update organization")
	}
	return org, nil
}
