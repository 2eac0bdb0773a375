// Package projects manages projects and their individual shifts. Updating a
// project's contract status runs the scheduler's status gate.
package projects

import (
	"context"
	"strings"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Gate clears future assignments of a project that stopped being active. The
// clearing joins the caller's transaction; Notify runs after it commits.
type Gate interface {
	ClearFutureAssignments(ctx context.Context, tx *store.Store, projectID string) (*scheduler.GateRun, error)
	Notify(ctx context.Context, run *scheduler.GateRun, projectName string) *scheduler.GateResult
}

type Service struct {
	store *store.Store
	gate  Gate
	log   logrus.FieldLogger
}

func NewService(st *store.Store, gate Gate, log logrus.FieldLogger) *Service {
	return &Service{store: st, gate: gate, log: log}
}

type CreateInput struct {
	Name           string
	Location       *string
	Latitude       *float64
	Longitude      *float64
	Notes          *string
	WorkType       string
	Rate           decimal.Decimal
	ContractStatus string
}

func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (*database.Project, error) {
	if _, err := s.store.Organizations.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeOrganizationNotFound, "organization %s not found", orgID)
		}
		return nil, errors.Wrap(err, "load organization")
	}

	workType := database.WorkHourly
	if in.WorkType != "" {
		wt, ok := database.ParseWorkType(in.WorkType)
		if !ok {
			return nil, apperr.Validation(apperr.CodeValidationFailed, "unknown work type %q", in.WorkType)
		}
		workType = wt
	}
	status := database.ContractActive
	if in.ContractStatus != "" {
		st, ok := database.ParseContractStatus(in.ContractStatus)
		if !ok {
			return nil, apperr.Validation(apperr.CodeInvalidStatus, "unknown contract status %q", in.ContractStatus)
		}
		status = st
	}
	if in.Rate.IsNegative() {
		return nil, apperr.Validation(apperr.CodeValidationFailed, "rate must not be negative")
	}

	p := &database.Project{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(in.Name),
		Location:       in.Location,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Notes:          in.Notes,
		WorkType:       workType,
		Rate:           in.Rate,
		ContractStatus: status,
	}
	if err := s.store.Projects.Add(ctx, p); err != nil {
		return nil, errors.Wrap(err, "insert project")
	}
	s.log.WithFields(logrus.Fields{"organization_id": orgID, "project_id": p.ID}).Info("project created")
	return p, nil
}

// Get returns the project only when it belongs to orgID
func (s *Service) Get(ctx context.Context, orgID, projectID string) (*database.Project, error) {
	p, err := s.store.Projects.GetInOrganization(ctx, orgID, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project %s not found", projectID)
	}
	return p, errors.Wrap(err, "load project")
}

// Lookup returns a project by id regardless of organization
func (s *Service) Lookup(ctx context.Context, projectID string) (*database.Project, error) {
	p, err := s.store.Projects.GetByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project %s not found", projectID)
	}
	return p, errors.Wrap(err, "load project")
}

type Page struct {
	Items      []database.Project
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func (s *Service) List(ctx context.Context, orgID string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	items, total, err := s.store.Projects.ListByOrganization(ctx, orgID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

type UpdateInput struct {
	Name           *string
	Location       *string
	Latitude       *float64
	Longitude      *float64
	Notes          *string
	WorkType       *string
	Rate           *decimal.Decimal
	ContractStatus *string
}

// Update applies the set fields. When the contract status moves from Active to
// Paused, Expired or Cancelled, the project's future assignments are cleared
// after the update commits; the gate result is nil otherwise.
func (s *Service) Update(ctx context.Context, orgID, projectID string, in UpdateInput) (*database.Project, *scheduler.GateResult, error) {
	p, err := s.Get(ctx, orgID, projectID)
	if err != nil {
		return nil, nil, err
	}
	original := p.ContractStatus

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		p.Location = in.Location
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}
	if in.WorkType != nil {
		wt, ok := database.ParseWorkType(*in.WorkType)
		if !ok {
			return nil, nil, apperr.Validation(apperr.CodeValidationFailed, "unknown work type %q", *in.WorkType)
		}
		p.WorkType = wt
	}
	if in.Rate != nil {
		if in.Rate.IsNegative() {
			return nil, nil, apperr.Validation(apperr.CodeValidationFailed, "rate must not be negative")
		}
		p.Rate = *in.Rate
	}
	if in.ContractStatus != nil {
		st, ok := database.ParseContractStatus(*in.ContractStatus)
		if !ok {
			return nil, nil, apperr.Validation(apperr.CodeInvalidStatus, "unknown contract status %q", *in.ContractStatus)
		}
		p.ContractStatus = st
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now

	gated := scheduler.GateTriggered(original, p.ContractStatus)
	var run *scheduler.GateRun
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Projects.Update(ctx, p); err != nil {
			return errors.Wrap(err, "update project")
		}
		if !gated {
			return nil
		}
		var err error
		run, err = s.gate.ClearFutureAssignments(ctx, tx, p.ID)
		return errors.Wrap(err, "clear future assignments")
	})
	if err != nil {
		return nil, nil, err
	}
	if !gated {
		return p, nil, nil
	}

	s.log.WithFields(logrus.Fields{
		"project_id": p.ID,
		"from":       original,
		"to":         p.ContractStatus,
	}).Info("project left active status")
	return p, s.gate.Notify(ctx, run, p.Name), nil
}

// Delete removes the project with its shifts and assignments
func (s *Service) Delete(ctx context.Context, orgID, projectID string) error {
	if _, err := s.Get(ctx, orgID, projectID); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Projects.Delete(ctx, projectID)
	})
	if err != nil {
		return errors.Wrap(err, "delete project")
	}
	s.log.WithFields(logrus.Fields{"organization_id": orgID, "project_id": projectID}).Info("project deleted")
	return nil
}
