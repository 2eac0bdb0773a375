package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AssignmentInput is one desired (shift, user) link
type AssignmentInput struct {
	ShiftID string
	UserID  string
	Notes   *string
}

type SkippedAssignment struct {
	ShiftID string `json:"shift_id"`
	UserID  string `json:"user_id"`
	Reason  string `json:"reason"`
}

type AssignmentSyncResult struct {
	Added   int
	Updated int
	Deleted int
	Current []database.WorkerAssignment
	Skipped []SkippedAssignment
}

type assignmentKey struct {
	shiftID string
	userID  string
}

// notice is a notification queued until after the commit
type notice struct {
	userID string
	title  string
	shift  database.Shift
}

func assignedMessage(sh database.Shift) string {
	return fmt.Sprintf("You have been assigned to a shift on %s from %s to %s.", sh.ShiftDate, sh.StartTime, sh.EndTime)
}

func unassignedMessage(sh database.Shift) string {
	return fmt.Sprintf("You have been unassigned from a shift on %s from %s to %s.", sh.ShiftDate, sh.StartTime, sh.EndTime)
}

func (n notice) message() string {
	if n.title == TitleAssigned {
		return assignedMessage(n.shift)
	}
	return unassignedMessage(n.shift)
}

func sameNotes(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SyncProjectAssignments replaces the project's assignments with desired. The
// project must belong to orgID. Links missing from desired are deleted, new
// links are created as Pending, and matched links get their notes refreshed.
// Every matched link counts as updated. Items with an unknown user, a shift
// outside the project, or a repeated key are skipped and reported.
func (s *Scheduler) SyncProjectAssignments(ctx context.Context, orgID, projectID string, desired []AssignmentInput) (res *AssignmentSyncResult, err error) {
	started := time.Now()
	defer func() {
		if res != nil {
			s.metrics.ObserveSync(metrics.KindAssignments, res.Added, res.Updated, res.Deleted, nil, started)
		} else {
			s.metrics.ObserveSync(metrics.KindAssignments, 0, 0, 0, err, started)
		}
	}()

	if _, err := s.store.Projects.GetInOrganization(ctx, orgID, projectID); err != nil {
		return nil, notFound(err, apperr.CodeProjectNotFound, "project %s not found in organization %s", projectID, orgID)
	}

	existing, err := s.store.Assignments.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "load project assignments")
	}

	keyOf := func(in AssignmentInput) assignmentKey { return assignmentKey{in.ShiftID, in.UserID} }
	idx := indexByKey(desired, keyOf, false)
	p := reconcile(existing, func(a database.WorkerAssignment) assignmentKey {
		return assignmentKey{a.ShiftID, a.UserID}
	}, idx)

	result := &AssignmentSyncResult{}
	for _, in := range idx.dropped {
		result.Skipped = append(result.Skipped, SkippedAssignment{ShiftID: in.ShiftID, UserID: in.UserID, Reason: ReasonDuplicate})
	}

	var (
		removals []notice
		deletes  []string
		modified []database.WorkerAssignment
	)
	for _, a := range p.missing {
		deletes = append(deletes, a.ID)
		if a.Shift != nil {
			removals = append(removals, notice{userID: a.UserID, title: TitleUnassigned, shift: *a.Shift})
		}
	}

	now := time.Now().UTC()
	for _, m := range p.matched {
		if !sameNotes(m.existing.Notes, m.desired.Notes) {
			a := m.existing
			a.Notes = m.desired.Notes
			a.UpdatedAt = &now
			modified = append(modified, a)
		}
	}

	shiftIDs := make([]string, 0, len(p.extra))
	userIDs := make([]string, 0, len(p.extra))
	for _, in := range p.extra {
		shiftIDs = append(shiftIDs, in.ShiftID)
		userIDs = append(userIDs, in.UserID)
	}
	shifts, err := s.store.Shifts.GetByIDs(ctx, projectID, shiftIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load desired shifts")
	}
	shiftByID := make(map[string]database.Shift, len(shifts))
	for _, sh := range shifts {
		shiftByID[sh.ID] = sh
	}
	users, err := s.store.Users.ExistingIDs(ctx, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load desired users")
	}

	var (
		additions []notice
		inserts   []database.WorkerAssignment
	)
	for _, in := range p.extra {
		sh, ok := shiftByID[in.ShiftID]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedAssignment{ShiftID: in.ShiftID, UserID: in.UserID, Reason: ReasonShiftNotInProject})
			continue
		}
		if !users[in.UserID] {
			result.Skipped = append(result.Skipped, SkippedAssignment{ShiftID: in.ShiftID, UserID: in.UserID, Reason: ReasonUserNotFound})
			continue
		}
		inserts = append(inserts, database.WorkerAssignment{
			ShiftID: in.ShiftID,
			UserID:  in.UserID,
			Status:  database.StatusPending,
			Notes:   in.Notes,
		})
		additions = append(additions, notice{userID: in.UserID, title: TitleAssigned, shift: sh})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Assignments.DeleteRange(ctx, deletes); err != nil {
			return errors.Wrap(err, "delete assignments")
		}
		if err := tx.Assignments.AddRange(ctx, inserts); err != nil {
			return errors.Wrap(err, "insert assignments")
		}
		for i := range modified {
			if err := tx.Assignments.Update(ctx, &modified[i]); err != nil {
				return errors.Wrap(err, "update assignment")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Added = len(inserts)
	result.Updated = len(p.matched)
	result.Deleted = len(deletes)

	post := afterCommit(ctx)
	for _, n := range removals {
		s.notify(post, n.userID, n.title, n.message())
	}
	for _, n := range additions {
		s.notify(post, n.userID, n.title, n.message())
	}

	s.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"project_id":      projectID,
		"added":           result.Added,
		"updated":         result.Updated,
		"deleted":         result.Deleted,
		"skipped":         len(result.Skipped),
	}).Info("assignments synced")

	current, err := s.store.Assignments.GetByProjectID(post, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "reload project assignments")
	}
	result.Current = current
	return result, nil
}

// AssignWorker links userID to shiftID with status Pending
func (s *Scheduler) AssignWorker(ctx context.Context, shiftID, userID string) (*database.WorkerAssignment, error) {
	if _, err := s.store.Shifts.GetByID(ctx, shiftID); err != nil {
		return nil, notFound(err, apperr.CodeShiftNotFound, "shift %s not found", shiftID)
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, apperr.CodeUserNotFound, "user %s not found", userID)
	}

	_, err := s.store.Assignments.GetByShiftAndUser(ctx, shiftID, userID)
	switch {
	case err == nil:
		return nil, apperr.Conflict(apperr.CodeAlreadyAssigned, "worker %s is already assigned to shift %s", userID, shiftID)
	case !errors.Is(err, store.ErrNotFound):
		return nil, errors.Wrap(err, "check existing assignment")
	}

	a := &database.WorkerAssignment{ShiftID: shiftID, UserID: userID, Status: database.StatusPending}
	if err := s.store.Assignments.Add(ctx, a); err != nil {
		return nil, errors.Wrap(err, "insert assignment")
	}

	s.log.WithFields(logrus.Fields{"shift_id": shiftID, "user_id": userID}).Info("worker assigned")
	return s.reloadAssignment(ctx, a.ID)
}

type BulkAssignResult struct {
	Created []database.WorkerAssignment
	Skipped []SkippedAssignment
	// Assignments is every assignment on the shift after the call
	Assignments []database.WorkerAssignment
}

// BulkAssignWorkers links every listed user to shiftID. Unknown users and users
// already on the shift are skipped without failing the call.
func (s *Scheduler) BulkAssignWorkers(ctx context.Context, shiftID string, userIDs []string) (*BulkAssignResult, error) {
	if _, err := s.store.Shifts.GetByID(ctx, shiftID); err != nil {
		return nil, notFound(err, apperr.CodeShiftNotFound, "shift %s not found", shiftID)
	}

	users, err := s.store.Users.ExistingIDs(ctx, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load users")
	}
	current, err := s.store.Assignments.GetByShiftID(ctx, shiftID)
	if err != nil {
		return nil, errors.Wrap(err, "load shift assignments")
	}
	assigned := make(map[string]bool, len(current))
	for _, a := range current {
		assigned[a.UserID] = true
	}

	result := &BulkAssignResult{}
	var inserts []database.WorkerAssignment
	for _, userID := range userIDs {
		switch {
		case !users[userID]:
			result.Skipped = append(result.Skipped, SkippedAssignment{ShiftID: shiftID, UserID: userID, Reason: ReasonUserNotFound})
		case assigned[userID]:
			result.Skipped = append(result.Skipped, SkippedAssignment{ShiftID: shiftID, UserID: userID, Reason: ReasonAlreadyAssigned})
		default:
			assigned[userID] = true
			inserts = append(inserts, database.WorkerAssignment{ShiftID: shiftID, UserID: userID, Status: database.StatusPending})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inserts) > 0 {
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			return tx.Assignments.AddRange(ctx, inserts)
		})
		if err != nil {
			return nil, errors.Wrap(err, "insert assignments")
		}
	}

	s.log.WithFields(logrus.Fields{
		"shift_id": shiftID,
		"created":  len(inserts),
		"skipped":  len(result.Skipped),
	}).Info("workers bulk assigned")

	all, err := s.store.Assignments.GetByShiftID(afterCommit(ctx), shiftID)
	if err != nil {
		return nil, errors.Wrap(err, "reload shift assignments")
	}
	created := make(map[string]bool, len(inserts))
	for _, a := range inserts {
		created[a.ID] = true
	}
	for _, a := range all {
		if created[a.ID] {
			result.Created = append(result.Created, a)
		}
	}
	result.Assignments = all
	return result, nil
}

// StatusUpdate changes only the fields that are set
type StatusUpdate struct {
	Status         *string
	ActualQuantity *int
	Notes          *string
}

// UpdateStatus applies a partial update to one assignment
func (s *Scheduler) UpdateStatus(ctx context.Context, assignmentID string, upd StatusUpdate) (*database.WorkerAssignment, error) {
	a, err := s.store.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, apperr.CodeAssignmentNotFound, "assignment %s not found", assignmentID)
	}

	if upd.Status != nil {
		st, ok := database.ParseAssignmentStatus(*upd.Status)
		if !ok {
			return nil, apperr.Validation(apperr.CodeInvalidStatus, "unknown assignment status %q", *upd.Status)
		}
		a.Status = st
	}
	if upd.ActualQuantity != nil {
		if *upd.ActualQuantity < 0 {
			return nil, apperr.Validation(apperr.CodeValidationFailed, "actual_quantity must not be negative")
		}
		a.ActualQuantity = upd.ActualQuantity
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}
	now := time.Now().UTC()
	a.UpdatedAt = &now

	if err := s.store.Assignments.Update(ctx, a); err != nil {
		return nil, errors.Wrap(err, "update assignment")
	}
	return s.reloadAssignment(ctx, a.ID)
}

// RemoveAssignment deletes one assignment and tells the worker
func (s *Scheduler) RemoveAssignment(ctx context.Context, assignmentID string) error {
	a, err := s.store.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return notFound(err, apperr.CodeAssignmentNotFound, "assignment %s not found", assignmentID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.Assignments.Delete(ctx, a.ID); err != nil {
		return errors.Wrap(err, "delete assignment")
	}

	if a.Shift != nil {
		s.notify(afterCommit(ctx), a.UserID, TitleUnassigned, unassignedMessage(*a.Shift))
	}
	s.log.WithFields(logrus.Fields{"assignment_id": a.ID, "user_id": a.UserID}).Info("assignment removed")
	return nil
}

// GetAssignment loads one assignment with its shift and user
func (s *Scheduler) GetAssignment(ctx context.Context, assignmentID string) (*database.WorkerAssignment, error) {
	a, err := s.store.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, apperr.CodeAssignmentNotFound, "assignment %s not found", assignmentID)
	}
	return a, nil
}

// ShiftAssignments lists the assignments on one shift
func (s *Scheduler) ShiftAssignments(ctx context.Context, shiftID string) ([]database.WorkerAssignment, error) {
	if _, err := s.store.Shifts.GetByID(ctx, shiftID); err != nil {
		return nil, notFound(err, apperr.CodeShiftNotFound, "shift %s not found", shiftID)
	}
	out, err := s.store.Assignments.GetByShiftID(ctx, shiftID)
	return out, errors.Wrap(err, "load shift assignments")
}

// ProjectAssignments lists the assignments of a project in orgID, newest first
func (s *Scheduler) ProjectAssignments(ctx context.Context, orgID, projectID string) ([]database.WorkerAssignment, error) {
	if _, err := s.store.Projects.GetInOrganization(ctx, orgID, projectID); err != nil {
		return nil, notFound(err, apperr.CodeProjectNotFound, "project %s not found in organization %s", projectID, orgID)
	}
	out, err := s.store.Assignments.GetByProjectID(ctx, projectID)
	return out, errors.Wrap(err, "load project assignments")
}

// WorkerAssignments lists a worker's own assignments by shift date
func (s *Scheduler) WorkerAssignments(ctx context.Context, userID string, dates *store.DateRange) ([]database.WorkerAssignment, error) {
	out, err := s.store.Assignments.GetByUserID(ctx, userID, dates)
	return out, errors.Wrap(err, "load worker assignments")
}

func (s *Scheduler) reloadAssignment(ctx context.Context, id string) (*database.WorkerAssignment, error) {
	a, err := s.store.Assignments.GetByID(afterCommit(ctx), id)
	if err != nil {
		return nil, errors.Wrap(err, "reload assignment")
	}
	return a, nil
}
