package projects

import (
	"context"
	"testing"
	"time"

	"github.com/arnavshah/shiftdock-api/internal/testdb"
	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type nopNotifier struct{ count int }

func (n *nopNotifier) Send(context.Context, string, string, string) error { n.count++; return nil }
func (n *nopNotifier) SendBulk(context.Context, []string, string, string) error {
	return nil
}

type env struct {
	db       *gorm.DB
	svc      *Service
	notifier *nopNotifier
	org      database.Organization
	owner    database.User
}

func setup(t *testing.T) *env {
	db := testdb.Open(t)
	logger, _ := test.NewNullLogger()
	st := store.New(db)
	n := &nopNotifier{}
	clock := scheduler.WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	sched := scheduler.NewScheduler(st, n, logger, clock)

	owner := testdb.User(t, db, "Olive Owner")
	return &env{
		db:       db,
		svc:      NewService(st, sched, logger),
		notifier: n,
		org:      testdb.Organization(t, db, owner.ID),
		owner:    owner,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	e := setup(t)

	p, err := e.svc.Create(context.Background(), e.org.ID, CreateInput{Name: "Pier 4", Rate: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.Equal(t, database.WorkHourly, p.WorkType)
	assert.Equal(t, database.ContractActive, p.ContractStatus)

	_, err = e.svc.Create(context.Background(), e.org.ID, CreateInput{Name: "x", WorkType: "Pallet"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.svc.Create(context.Background(), "missing", CreateInput{Name: "x"})
	assert.Equal(t, apperr.CodeOrganizationNotFound, apperr.CodeOf(err))
}

func TestUpdateToPausedRunsGate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	worker := testdb.User(t, e.db, "Wes Worker")
	p := testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	future := testdb.Shift(t, e.db, p.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, e.db, future.ID, worker.ID)

	updated, gate, err := e.svc.Update(ctx, e.org.ID, p.ID, UpdateInput{ContractStatus: strPtr("paused")})
	require.NoError(t, err)
	assert.Equal(t, database.ContractPaused, updated.ContractStatus)
	require.NotNil(t, gate)
	assert.Equal(t, 1, gate.Unassigned)
	assert.Equal(t, 1, e.notifier.count)

	// Paused to Cancelled is not a transition out of Active
	_, gate, err = e.svc.Update(ctx, e.org.ID, p.ID, UpdateInput{ContractStatus: strPtr("Cancelled")})
	require.NoError(t, err)
	assert.Nil(t, gate)
}

func TestUpdateRollsBackWhenGateFails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	worker := testdb.User(t, e.db, "Wes Worker")
	p := testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	sh := testdb.Shift(t, e.db, p.ID, "2099-01-01", "08:00", "12:00")
	a := testdb.Assignment(t, e.db, sh.ID, worker.ID)

	failing := true
	require.NoError(t, e.db.Callback().Delete().Before("gorm:delete").Register("test:fail_assignment_delete", func(tx *gorm.DB) {
		if failing && tx.Statement.Table == "worker_assignments" {
			_ = tx.AddError(errors.New("db hiccup"))
		}
	}))

	_, _, err := e.svc.Update(ctx, e.org.ID, p.ID, UpdateInput{ContractStatus: strPtr("paused"), Name: strPtr("Renamed")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db hiccup")

	stored, err := e.svc.Lookup(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, database.ContractActive, stored.ContractStatus)
	assert.Equal(t, p.Name, stored.Name)
	var count int64
	require.NoError(t, e.db.Model(&database.WorkerAssignment{}).Where("id = ?", a.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Zero(t, e.notifier.count)

	// the retry still sees an Active project and clears its future work
	failing = false
	updated, gate, err := e.svc.Update(ctx, e.org.ID, p.ID, UpdateInput{ContractStatus: strPtr("paused")})
	require.NoError(t, err)
	assert.Equal(t, database.ContractPaused, updated.ContractStatus)
	require.NotNil(t, gate)
	assert.Equal(t, 1, gate.Unassigned)
	require.NoError(t, e.db.Model(&database.WorkerAssignment{}).Where("id = ?", a.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 1, e.notifier.count)
}

func TestUpdateWithoutStatusChangeSkipsGate(t *testing.T) {
	e := setup(t)
	worker := testdb.User(t, e.db, "Wes Worker")
	p := testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	sh := testdb.Shift(t, e.db, p.ID, "2099-01-01", "08:00", "12:00")
	a := testdb.Assignment(t, e.db, sh.ID, worker.ID)

	updated, gate, err := e.svc.Update(context.Background(), e.org.ID, p.ID, UpdateInput{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Nil(t, gate)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, database.ContractActive, updated.ContractStatus)

	var count int64
	require.NoError(t, e.db.Model(&database.WorkerAssignment{}).Where("id = ?", a.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetScopedToOrganization(t *testing.T) {
	e := setup(t)
	stranger := testdb.User(t, e.db, "Sam Stranger")
	other := testdb.Organization(t, e.db, stranger.ID)
	p := testdb.Project(t, e.db, other.ID, database.ContractActive)

	_, err := e.svc.Get(context.Background(), e.org.ID, p.ID)
	assert.Equal(t, apperr.CodeProjectNotFound, apperr.CodeOf(err))
}

func TestListPages(t *testing.T) {
	e := setup(t)
	for i := 0; i < 3; i++ {
		testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	}

	page, err := e.svc.List(context.Background(), e.org.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestShiftCRUD(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := testdb.Project(t, e.db, e.org.ID, database.ContractActive)

	sh, err := e.svc.CreateShift(ctx, p.ID, scheduler.ShiftInput{ShiftDate: "2099-05-01", StartTime: "06:00", EndTime: "14:00"})
	require.NoError(t, err)

	_, err = e.svc.CreateShift(ctx, p.ID, scheduler.ShiftInput{ShiftDate: "May 1", StartTime: "06:00", EndTime: "14:00"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := e.svc.UpdateShift(ctx, p.ID, sh.ID, ShiftPatch{EndTime: strPtr("15:00")})
	require.NoError(t, err)
	assert.Equal(t, "06:00", updated.StartTime)
	assert.Equal(t, "15:00", updated.EndTime)

	other := testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	_, err = e.svc.UpdateShift(ctx, other.ID, sh.ID, ShiftPatch{})
	assert.Equal(t, apperr.CodeShiftNotFound, apperr.CodeOf(err))

	listed, err := e.svc.Shifts(ctx, p.ID, &store.DateRange{From: "2099-01-01", To: "2099-12-31"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = e.svc.Shifts(ctx, p.ID, &store.DateRange{From: "tomorrow"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	testdb.Assignment(t, e.db, sh.ID, e.owner.ID)
	require.NoError(t, e.svc.DeleteShift(ctx, p.ID, sh.ID))
	listed, err = e.svc.Shifts(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteProject(t *testing.T) {
	e := setup(t)
	p := testdb.Project(t, e.db, e.org.ID, database.ContractActive)
	testdb.Shift(t, e.db, p.ID, "2099-01-01", "08:00", "12:00")

	require.NoError(t, e.svc.Delete(context.Background(), e.org.ID, p.ID))
	_, err := e.svc.Lookup(context.Background(), p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
