package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
)

// Period is the inclusive shift date range of a CSV export. Both ends are required.
type Period struct {
	From string
	To   string
}

func (p Period) validate() error {
	if p.From == "" || p.To == "" {
		return apperr.Validation(apperr.CodeValidationFailed, "from and to dates are required")
	}
	return validRange(&store.DateRange{From: p.From, To: p.To})
}

func (p Period) dateRange() *store.DateRange {
	return &store.DateRange{From: p.From, To: p.To}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// document writes the title lines and the table header
func document(title string, p Period, header []string) (*bytes.Buffer, *csv.Writer, error) {
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, title)
	fmt.Fprintf(buf, "Period: %s to %s\n\n", p.From, p.To)
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, nil, err
	}
	return buf, w, nil
}

func finish(buf *bytes.Buffer, w *csv.Writer) ([]byte, error) {
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "write csv")
	}
	return buf.Bytes(), nil
}

func (s *Service) assignedCounts(ctx context.Context, shifts []database.Shift) (map[string]int, error) {
	ids := make([]string, len(shifts))
	for i, sh := range shifts {
		ids[i] = sh.ID
	}
	counts, err := s.store.Assignments.CountByShift(ctx, ids)
	return counts, errors.Wrap(err, "count assignments")
}

// ProjectCSV lists a project's shifts in the period with their assigned worker counts
func (s *Service) ProjectCSV(ctx context.Context, projectID string, p Period) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	project, err := s.store.Projects.GetByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project %s not found", projectID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load project")
	}
	shifts, err := s.store.Shifts.GetByProjectID(ctx, projectID, p.dateRange())
	if err != nil {
		return nil, errors.Wrap(err, "load shifts")
	}
	counts, err := s.assignedCounts(ctx, shifts)
	if err != nil {
		return nil, err
	}

	buf, w, err := document("Project Report: "+project.Name, p,
		[]string{"Date", "Start Time", "End Time", "Target Quantity", "Assigned Workers"})
	if err != nil {
		return nil, errors.Wrap(err, "write csv")
	}
	for _, sh := range shifts {
		if err := w.Write([]string{
			sh.ShiftDate, sh.StartTime, sh.EndTime, optInt(sh.TargetQuantity), strconv.Itoa(counts[sh.ID]),
		}); err != nil {
			return nil, errors.Wrap(err, "write csv")
		}
	}
	return finish(buf, w)
}

// AttendanceCSV lists every shift of the organization in the period
func (s *Service) AttendanceCSV(ctx context.Context, orgID string, p Period) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	org, err := s.organization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects.AllByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "load projects")
	}
	names := make(map[string]string, len(projects))
	for _, pr := range projects {
		names[pr.ID] = pr.Name
	}
	shifts, err := s.store.Shifts.GetByOrganization(ctx, orgID, p.dateRange())
	if err != nil {
		return nil, errors.Wrap(err, "load shifts")
	}
	counts, err := s.assignedCounts(ctx, shifts)
	if err != nil {
		return nil, err
	}

	buf, w, err := document("Attendance Report: "+org.Name, p,
		[]string{"Date", "Project", "Start Time", "End Time", "Target Quantity", "Total Workers"})
	if err != nil {
		return nil, errors.Wrap(err, "write csv")
	}
	for _, sh := range shifts {
		if err := w.Write([]string{
			sh.ShiftDate, names[sh.ProjectID], sh.StartTime, sh.EndTime, optInt(sh.TargetQuantity), strconv.Itoa(counts[sh.ID]),
		}); err != nil {
			return nil, errors.Wrap(err, "write csv")
		}
	}
	return finish(buf, w)
}

// WorkerCSV lists one row per assignment on the organization's shifts in the period
func (s *Service) WorkerCSV(ctx context.Context, orgID string, p Period) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if _, err := s.organization(ctx, orgID); err != nil {
		return nil, err
	}
	projects, err := s.store.Projects.AllByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "load projects")
	}
	names := make(map[string]string, len(projects))
	for _, pr := range projects {
		names[pr.ID] = pr.Name
	}
	assignments, err := s.store.Assignments.GetByOrganization(ctx, orgID, "", p.dateRange())
	if err != nil {
		return nil, errors.Wrap(err, "load assignments")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Worker Name", "Phone", "Shift Date", "Project", "Status", "Actual Quantity", "Assigned Date"}); err != nil {
		return nil, errors.Wrap(err, "write csv")
	}
	for _, a := range assignments {
		var name, phone, date, project string
		if a.User != nil {
			name, phone = a.User.Name, a.User.Phone
		}
		if a.Shift != nil {
			date, project = a.Shift.ShiftDate, names[a.Shift.ProjectID]
		}
		if err := w.Write([]string{
			name, phone, date, project, string(a.Status), optInt(a.ActualQuantity), a.CreatedAt.UTC().Format("2006-01-02"),
		}); err != nil {
			return nil, errors.Wrap(err, "write csv")
		}
	}
	return finish(buf, w)
}
