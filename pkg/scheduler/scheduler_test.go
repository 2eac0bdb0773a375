package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arnavshah/shiftdock-api/internal/testdb"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

type sentNotice struct {
	userID  string
	title   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
	fail error
}

func (r *recordingNotifier) Send(_ context.Context, userID, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, sentNotice{userID: userID, title: title, message: message})
	return nil
}

func (r *recordingNotifier) SendBulk(ctx context.Context, userIDs []string, title, message string) error {
	for _, id := range userIDs {
		if err := r.Send(ctx, id, title, message); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingNotifier) to(userID string) []sentNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentNotice
	for _, n := range r.sent {
		if n.userID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	store    *store.Store
	sched    *Scheduler
	notifier *recordingNotifier
	logs     *test.Hook
	org      database.Organization
	project  database.Project
	owner    database.User
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testdb.Open(t)
	owner := testdb.User(t, db, "Olive Owner")
	org := testdb.Organization(t, db, owner.ID)
	project := testdb.Project(t, db, org.ID, database.ContractActive)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	notifier := &recordingNotifier{}
	st := store.New(db)
	opts = append([]Option{WithMetrics(metrics.New(prometheus.NewRegistry()))}, opts...)

	return &fixture{
		db:       db,
		store:    st,
		sched:    NewScheduler(st, notifier, logger, opts...),
		notifier: notifier,
		logs:     hook,
		org:      org,
		project:  project,
		owner:    owner,
	}
}

func fixedClock(date string) Option {
	return WithClock(func() time.Time {
		t, _ := time.Parse(DateLayout, date)
		return t.Add(9 * time.Hour)
	})
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
