package orgs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Join files a pending request to join the organization owning code
func (s *Service) Join(ctx context.Context, userID, code string) (*database.JoinRequest, error) {
	org, err := s.store.Organizations.GetByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeOrganizationNotFound, "no organization uses join code %s", code)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load organization by code")
	}

	_, err = s.store.Memberships.Get(ctx, org.ID, userID)
	switch {
	case err == nil:
		return nil, apperr.Conflict(apperr.CodeAlreadyMember, "you are already a member of %s", org.Name)
	case !errors.Is(err, store.ErrNotFound):
		return nil, errors.Wrap(err, "load membership")
	}

	pending, err := s.store.JoinRequests.HasPending(ctx, org.ID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "check pending join request")
	}
	if pending {
		return nil, apperr.Conflict(apperr.CodeJoinRequestPending, "a pending join request already exists")
	}

	req := &database.JoinRequest{
		OrganizationID: org.ID,
		UserID:         userID,
		Status:         database.JoinPending,
		RequestedAt:    time.Now().UTC(),
	}
	if err := s.store.JoinRequests.Add(ctx, req); err != nil {
		return nil, errors.Wrap(err, "insert join request")
	}
	s.log.WithFields(logrus.Fields{"organization_id": org.ID, "user_id": userID}).Info("join requested")
	return req, nil
}

// PendingRequests lists open join requests. Managers only.
func (s *Service) PendingRequests(ctx context.Context, orgID, actorID string) ([]database.JoinRequest, error) {
	if _, err := s.RequireManager(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	out, err := s.store.JoinRequests.ListPending(ctx, orgID)
	return out, errors.Wrap(err, "list join requests")
}

type HandleResult struct {
	Processed int      `json:"processed_count"`
	Failed    int      `json:"failed_count"`
	Errors    []string `json:"errors"`
	Message   string   `json:"message"`
}

// HandleRequests approves or rejects a batch of join requests. Each request
// succeeds or fails on its own; failures are described in the result.
func (s *Service) HandleRequests(ctx context.Context, orgID, actorID string, requestIDs []string, approve bool) (*HandleResult, error) {
	if _, err := s.RequireManager(ctx, orgID, actorID); err != nil {
		return nil, err
	}

	res := &HandleResult{Errors: []string{}}
	var approved []string
	for _, id := range requestIDs {
		var joined string
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			req, err := tx.JoinRequests.GetByID(ctx, id)
			if errors.Is(err, store.ErrNotFound) || (err == nil && req.OrganizationID != orgID) {
				return errors.Errorf("join request %s not found", id)
			}
			if err != nil {
				return err
			}
			if req.Status != database.JoinPending {
				return errors.Errorf("join request %s has already been %s", id, strings.ToLower(string(req.Status)))
			}

			if approve {
				_, err := tx.Memberships.Get(ctx, orgID, req.UserID)
				if err == nil {
					return errors.Errorf("user in request %s is already a member", id)
				}
				if !errors.Is(err, store.ErrNotFound) {
					return err
				}
				if err := tx.Memberships.Add(ctx, &database.OrganizationMembership{
					OrganizationID: orgID,
					UserID:         req.UserID,
					Role:           database.RoleWorker,
					Status:         database.MemberActive,
					JoinedAt:       time.Now().UTC(),
				}); err != nil {
					return err
				}
				req.Status = database.JoinApproved
				joined = req.UserID
			} else {
				req.Status = database.JoinRejected
			}
			now := time.Now().UTC()
			req.ProcessedAt = &now
			return tx.JoinRequests.Update(ctx, req)
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Processed++
		if joined != "" {
			approved = append(approved, joined)
		}
	}

	action := "rejected"
	if approve {
		action = "approved"
	}
	res.Message = "No join requests were processed"
	if res.Processed > 0 {
		res.Message = fmt.Sprintf("%d join request(s) %s successfully", res.Processed, action)
	}
	if res.Failed > 0 {
		res.Message += fmt.Sprintf(". %d request(s) failed", res.Failed)
	}

	for _, userID := range approved {
		if err := s.notifier.Send(context.WithoutCancel(ctx), userID, "Join Request Approved", "Your request to join the organization has been approved."); err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("notification not delivered")
		}
	}
	s.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"processed":       res.Processed,
		"failed":          res.Failed,
	}).Info("join requests handled")
	return res, nil
}

// Members lists the organization's memberships with their users
func (s *Service) Members(ctx context.Context, orgID, actorID string) ([]database.OrganizationMembership, error) {
	if _, err := s.RequireMember(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	out, err := s.store.Memberships.ListByOrganization(ctx, orgID)
	return out, errors.Wrap(err, "list members")
}

// target loads a member the actor may manage. Owners manage everyone but the
// owner; admins manage workers only.
func (s *Service) target(ctx context.Context, orgID, userID, actorID string) (*database.OrganizationMembership, error) {
	actor, err := s.RequireManager(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	m, err := s.store.Memberships.Get(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeMemberNotFound, "member %s not found", userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load member")
	}
	if m.Role == database.RoleOwner {
		return nil, apperr.Forbidden(apperr.CodeInsufficientRole, "the owner membership cannot be changed")
	}
	if actor.Role == database.RoleAdmin && m.Role != database.RoleWorker {
		return nil, apperr.Forbidden(apperr.CodeInsufficientRole, "admins can only manage workers")
	}
	return m, nil
}

// UpdateMemberStatus sets a member Active or Inactive
func (s *Service) UpdateMemberStatus(ctx context.Context, orgID, userID, actorID, status string) (*database.OrganizationMembership, error) {
	st, ok := database.ParseMemberStatus(status)
	if !ok {
		return nil, apperr.Validation(apperr.CodeInvalidStatus, "invalid status value, must be 'Active' or 'Inactive'")
	}
	m, err := s.target(ctx, orgID, userID, actorID)
	if err != nil {
		return nil, err
	}
	m.Status = st
	now := time.Now().UTC()
	m.UpdatedAt = &now
	if err := s.store.Memberships.Update(ctx, m); err != nil {
		return nil, errors.Wrap(err, "update member status")
	}
	return m, nil
}

// RatesInput overrides organization default rates for one member. A nil
// field keeps the current value; a zero-valid NullDecimal clears it.
type RatesInput struct {
	HourlyRate    *decimal.NullDecimal
	ContainerRate *decimal.NullDecimal
	BoxRate       *decimal.NullDecimal
}

func (s *Service) UpdateMemberRates(ctx context.Context, orgID, userID, actorID string, in RatesInput) (*database.OrganizationMembership, error) {
	m, err := s.target(ctx, orgID, userID, actorID)
	if err != nil {
		return nil, err
	}
	for _, r := range []*decimal.NullDecimal{in.HourlyRate, in.ContainerRate, in.BoxRate} {
		if r != nil && r.Valid && r.Decimal.IsNegative() {
			return nil, apperr.Validation(apperr.CodeValidationFailed, "rates must not be negative")
		}
	}
	if in.HourlyRate != nil {
		m.HourlyRate = *in.HourlyRate
	}
	if in.ContainerRate != nil {
		m.ContainerRate = *in.ContainerRate
	}
	if in.BoxRate != nil {
		m.BoxRate = *in.BoxRate
	}
	now := time.Now().UTC()
	m.UpdatedAt = &now
	if err := s.store.Memberships.Update(ctx, m); err != nil {
		return nil, errors.Wrap(err, "update member rates")
	}
	return m, nil
}

func (s *Service) RemoveMember(ctx context.Context, orgID, userID, actorID string) error {
	m, err := s.target(ctx, orgID, userID, actorID)
	if err != nil {
		return err
	}
	if err := s.store.Memberships.Delete(ctx, orgID, m.UserID); err != nil {
		return errors.Wrap(err, "remove member")
	}
	s.log.WithFields(logrus.Fields{"organization_id": orgID, "user_id": userID}).Info("member removed")
	return nil
}
