// Package reports aggregates completed work into payroll figures, CSV exports
// and dashboard counters.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store *store.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(st *store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

// WorkerPay is one worker's line on the payroll
type WorkerPay struct {
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	CompletedShifts int             `json:"completed_shifts"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	TotalContainers int             `json:"total_containers"`
	TotalBoxes      int             `json:"total_boxes"`
	TotalQuantity   int             `json:"total_quantity"`
	Earnings        decimal.Decimal `json:"earnings"`
}

type Payroll struct {
	OrganizationID string          `json:"organization_id"`
	From           string          `json:"from,omitempty"`
	To             string          `json:"to,omitempty"`
	Workers        []WorkerPay     `json:"workers"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	FairnessScore  float64         `json:"fairness_score"`
}

func (s *Service) organization(ctx context.Context, orgID string) (*database.Organization, error) {
	org, err := s.store.Organizations.GetByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeOrganizationNotFound, "organization %s not found", orgID)
	}
	return org, errors.Wrap(err, "load organization")
}

func validRange(dates *store.DateRange) error {
	if dates == nil {
		return nil
	}
	for _, d := range []string{dates.From, dates.To} {
		if d != "" && !scheduler.ValidDate(d) {
			return apperr.Validation(apperr.CodeValidationFailed, "date %q is not YYYY-MM-DD", d)
		}
	}
	if dates.From != "" && dates.To != "" && dates.From > dates.To {
		return apperr.Validation(apperr.CodeValidationFailed, "from %s is after to %s", dates.From, dates.To)
	}
	return nil
}

// rates resolves the pay rate for assignments in one organization: the
// member's override for the work type, then the project's rate, then the
// organization default for the work type.
type rates struct {
	org      *database.Organization
	projects map[string]database.Project
	members  map[string]database.OrganizationMembership
}

func (s *Service) loadRates(ctx context.Context, org *database.Organization) (*rates, error) {
	projects, err := s.store.Projects.AllByOrganization(ctx, org.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load projects")
	}
	members, err := s.store.Memberships.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load members")
	}
	r := &rates{
		org:      org,
		projects: make(map[string]database.Project, len(projects)),
		members:  make(map[string]database.OrganizationMembership, len(members)),
	}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	for _, m := range members {
		r.members[m.UserID] = m
	}
	return r, nil
}

func (r *rates) rate(userID string, p database.Project) decimal.Decimal {
	if m, ok := r.members[userID]; ok {
		var override decimal.NullDecimal
		switch p.WorkType {
		case database.WorkHourly:
			override = m.HourlyRate
		case database.WorkContainer:
			override = m.ContainerRate
		case database.WorkBox:
			override = m.BoxRate
		}
		if override.Valid {
			return override.Decimal
		}
	}
	if !p.Rate.IsZero() {
		return p.Rate
	}
	switch p.WorkType {
	case database.WorkContainer:
		return r.org.DefaultContainerRate
	case database.WorkBox:
		return r.org.DefaultBoxRate
	default:
		return r.org.DefaultHourlyRate
	}
}

// earn adds one completed assignment to the worker's line
func (r *rates) earn(line *WorkerPay, a database.WorkerAssignment) error {
	if a.Shift == nil {
		return errors.Errorf("assignment %s has no shift", a.ID)
	}
	p, ok := r.projects[a.Shift.ProjectID]
	if !ok {
		return errors.Errorf("shift %s belongs to no project of the organization", a.ShiftID)
	}
	qty := 0
	if a.ActualQuantity != nil {
		qty = *a.ActualQuantity
	}
	hours, err := scheduler.DurationHours(a.Shift.StartTime, a.Shift.EndTime)
	if err != nil {
		return errors.Wrapf(err, "shift %s", a.ShiftID)
	}
	h := decimal.NewFromFloat(hours).Round(2)

	line.CompletedShifts++
	line.TotalHours = line.TotalHours.Add(h)
	line.TotalQuantity += qty

	rate := r.rate(a.UserID, p)
	switch p.WorkType {
	case database.WorkContainer:
		line.TotalContainers += qty
		line.Earnings = line.Earnings.Add(rate.Mul(decimal.NewFromInt(int64(qty))))
	case database.WorkBox:
		line.TotalBoxes += qty
		line.Earnings = line.Earnings.Add(rate.Mul(decimal.NewFromInt(int64(qty))))
	default:
		line.Earnings = line.Earnings.Add(rate.Mul(h))
	}
	return nil
}

// Payroll totals Completed assignments per worker within the shift date range
func (s *Service) Payroll(ctx context.Context, orgID string, dates *store.DateRange) (*Payroll, error) {
	if err := validRange(dates); err != nil {
		return nil, err
	}
	org, err := s.organization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	r, err := s.loadRates(ctx, org)
	if err != nil {
		return nil, err
	}
	done, err := s.store.Assignments.GetByOrganization(ctx, orgID, database.StatusCompleted, dates)
	if err != nil {
		return nil, errors.Wrap(err, "load completed assignments")
	}

	lines := make(map[string]*WorkerPay)
	for _, a := range done {
		line, ok := lines[a.UserID]
		if !ok {
			line = &WorkerPay{UserID: a.UserID}
			if a.User != nil {
				line.Name = a.User.Name
				line.Phone = a.User.Phone
			}
			lines[a.UserID] = line
		}
		if err := r.earn(line, a); err != nil {
			return nil, err
		}
	}

	out := &Payroll{OrganizationID: orgID, Workers: make([]WorkerPay, 0, len(lines))}
	if dates != nil {
		out.From, out.To = dates.From, dates.To
	}
	hours := make([]float64, 0, len(lines))
	for _, line := range lines {
		line.Earnings = line.Earnings.Round(2)
		out.Workers = append(out.Workers, *line)
		out.TotalEarnings = out.TotalEarnings.Add(line.Earnings)
		hours = append(hours, line.TotalHours.InexactFloat64())
	}
	sort.Slice(out.Workers, func(i, j int) bool {
		if out.Workers[i].Name != out.Workers[j].Name {
			return out.Workers[i].Name < out.Workers[j].Name
		}
		return out.Workers[i].UserID < out.Workers[j].UserID
	})
	out.FairnessScore = FairnessScore(hours)

	s.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"workers":         len(out.Workers),
		"assignments":     len(done),
	}).Debug("payroll computed")
	return out, nil
}
