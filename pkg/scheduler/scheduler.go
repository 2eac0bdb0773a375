// Package scheduler reconciles desired shifts and worker assignments against the
// persisted state of a project and applies the status gate that clears future
// work when a project stops being active.
package scheduler

import (
	"context"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	TitleAssigned   = "Shift Assigned"
	TitleUnassigned = "Shift Unassigned"
	TitleCancelled  = "Shifts Cancelled"
)

// Skip reasons reported per item by the bulk and sync paths
const (
	ReasonDuplicate         = "duplicate"
	ReasonShiftNotFound     = "shift_not_found"
	ReasonShiftNotInProject = "shift_not_in_project"
	ReasonUserNotFound      = "user_not_found"
	ReasonAlreadyAssigned   = "already_assigned"
)

// Notifier delivers user notifications. The scheduler calls it only after a
// commit and never fails a request because of it.
type Notifier interface {
	Send(ctx context.Context, userID, title, message string) error
	SendBulk(ctx context.Context, userIDs []string, title, message string) error
}

// Scheduler handles shift and assignment reconciliation for projects
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	log      logrus.FieldLogger
	metrics  *metrics.Recorder
	now      func() time.Time
}

type Option func(*Scheduler)

// WithMetrics records reconciliation counters on m
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock overrides the source of "today" for the status gate
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a new scheduler instance
func NewScheduler(st *store.Store, notifier Notifier, log logrus.FieldLogger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    st,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notify sends one notification and swallows the failure
func (s *Scheduler) notify(ctx context.Context, userID, title, message string) bool {
	if err := s.notifier.Send(ctx, userID, title, message); err != nil {
		s.metrics.NotificationFailed()
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"title":   title,
		}).WithError(err).Warn("notification not delivered")
		return false
	}
	return true
}

// afterCommit detaches ctx so post-commit work is not cut short by the caller
func afterCommit(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func notFound(err error, code, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(code, format, args...)
	}
	return errors.WithStack(err)
}
