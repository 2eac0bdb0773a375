package store

import (
	"context"
	"testing"

	"github.com/arnavshah/shiftdock-api/internal/testdb"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T) (*Store, database.Project, database.User) {
	db := testdb.Open(t)
	owner := testdb.User(t, db, "Olive Owner")
	org := testdb.Organization(t, db, owner.ID)
	project := testdb.Project(t, db, org.ID, database.ContractActive)
	return New(db), project, owner
}

func TestShiftsOrderedByDateThenStart(t *testing.T) {
	s, project, _ := seedProject(t)
	db := s.DB()
	testdb.Shift(t, db, project.ID, "2099-02-01", "08:00", "12:00")
	testdb.Shift(t, db, project.ID, "2099-01-01", "13:00", "17:00")
	testdb.Shift(t, db, project.ID, "2099-01-01", "06:00", "10:00")

	shifts, err := s.Shifts.GetByProjectID(context.Background(), project.ID, nil)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "2099-01-01", shifts[0].ShiftDate)
	assert.Equal(t, "06:00", shifts[0].StartTime)
	assert.Equal(t, "13:00", shifts[1].StartTime)
	assert.Equal(t, "2099-02-01", shifts[2].ShiftDate)
}

func TestShiftDateRange(t *testing.T) {
	s, project, _ := seedProject(t)
	db := s.DB()
	testdb.Shift(t, db, project.ID, "2024-01-01", "08:00", "12:00")
	testdb.Shift(t, db, project.ID, "2025-06-01", "08:00", "12:00")
	testdb.Shift(t, db, project.ID, "2099-01-01", "08:00", "12:00")

	future, err := s.Shifts.GetFutureByProjectID(context.Background(), project.ID, "2025-06-01")
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, "2025-06-01", future[0].ShiftDate)

	bounded, err := s.Shifts.GetByProjectID(context.Background(), project.ID, &DateRange{From: "2024-01-01", To: "2025-01-01"})
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "2024-01-01", bounded[0].ShiftDate)
}

func TestDeleteRangeRemovesAssignments(t *testing.T) {
	s, project, owner := seedProject(t)
	db := s.DB()
	shift := testdb.Shift(t, db, project.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, db, shift.ID, owner.ID)

	require.NoError(t, s.Shifts.DeleteRange(context.Background(), []string{shift.ID}))

	_, err := s.Shifts.GetByID(context.Background(), shift.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	left, err := s.Assignments.GetByShiftID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestAssignmentsByProjectPreloads(t *testing.T) {
	s, project, owner := seedProject(t)
	db := s.DB()
	worker := testdb.User(t, db, "Wes Worker")
	shift := testdb.Shift(t, db, project.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, db, shift.ID, owner.ID)
	testdb.Assignment(t, db, shift.ID, worker.ID)

	other := testdb.Project(t, db, project.OrganizationID, database.ContractActive)
	otherShift := testdb.Shift(t, db, other.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, db, otherShift.ID, worker.ID)

	got, err := s.Assignments.GetByProjectID(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		require.NotNil(t, a.Shift)
		require.NotNil(t, a.User)
		assert.Equal(t, project.ID, a.Shift.ProjectID)
	}

	mine, err := s.Assignments.GetByProjectAndUser(context.Background(), project.ID, worker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Wes Worker", mine[0].User.Name)
}

func TestAssignmentUniquePerShiftAndUser(t *testing.T) {
	s, project, owner := seedProject(t)
	shift := testdb.Shift(t, s.DB(), project.ID, "2099-01-01", "08:00", "12:00")
	testdb.Assignment(t, s.DB(), shift.ID, owner.ID)

	dup := database.WorkerAssignment{ShiftID: shift.ID, UserID: owner.ID, Status: database.StatusPending}
	assert.Error(t, s.Assignments.Add(context.Background(), &dup))
}

func TestTransactionRollsBack(t *testing.T) {
	s, project, _ := seedProject(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Shifts.Add(ctx, &database.Shift{ProjectID: project.ID, ShiftDate: "2099-01-01", StartTime: "08:00", EndTime: "12:00"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	shifts, err := s.Shifts.GetByProjectID(ctx, project.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestProjectDeleteCascades(t *testing.T) {
	s, project, owner := seedProject(t)
	db := s.DB()
	shift := testdb.Shift(t, db, project.ID, "2099-01-01", "08:00", "12:00")
	a := testdb.Assignment(t, db, shift.ID, owner.ID)

	require.NoError(t, s.Projects.Delete(context.Background(), project.ID))

	_, err := s.Projects.GetByID(context.Background(), project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Assignments.GetByID(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectPagination(t *testing.T) {
	s, project, _ := seedProject(t)
	for i := 0; i < 4; i++ {
		testdb.Project(t, s.DB(), project.OrganizationID, database.ContractActive)
	}

	page, total, err := s.Projects.ListByOrganization(context.Background(), project.OrganizationID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)
}

func TestNotificationsMarkAllRead(t *testing.T) {
	s, _, owner := seedProject(t)
	ctx := context.Background()
	require.NoError(t, s.Notifications.AddRange(ctx, []database.Notification{
		{UserID: owner.ID, Type: "General", Title: "a", Message: "a"},
		{UserID: owner.ID, Type: "General", Title: "b", Message: "b"},
	}))

	n, err := s.Notifications.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	changed, err := s.Notifications.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	n, err = s.Notifications.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrganizationWideShiftsAndCounts(t *testing.T) {
	s, project, owner := seedProject(t)
	db := s.DB()
	worker := testdb.User(t, db, "Wes Worker")
	second := testdb.Project(t, db, project.OrganizationID, database.ContractActive)
	a := testdb.Shift(t, db, project.ID, "2099-01-02", "08:00", "12:00")
	b := testdb.Shift(t, db, second.ID, "2099-01-01", "08:00", "12:00")
	testdb.Shift(t, db, second.ID, "2100-01-01", "08:00", "12:00")
	testdb.Assignment(t, db, a.ID, owner.ID)
	testdb.Assignment(t, db, a.ID, worker.ID)

	shifts, err := s.Shifts.GetByOrganization(context.Background(), project.OrganizationID, &DateRange{To: "2099-12-31"})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, b.ID, shifts[0].ID)

	counts, err := s.Assignments.CountByShift(context.Background(), []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[a.ID])
	assert.Zero(t, counts[b.ID])

	all, err := s.Projects.AllByOrganization(context.Background(), project.OrganizationID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestShareOrganization(t *testing.T) {
	s, project, owner := seedProject(t)
	db := s.DB()
	worker := testdb.User(t, db, "Wes Worker")
	loner := testdb.User(t, db, "Lou Loner")
	testdb.Member(t, db, project.OrganizationID, worker.ID, database.RoleWorker)
	testdb.Organization(t, db, loner.ID)

	ok, err := s.Users.ShareOrganization(context.Background(), owner.ID, worker.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Users.ShareOrganization(context.Background(), worker.ID, loner.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBumpTokenVersion(t *testing.T) {
	s, _, owner := seedProject(t)
	ctx := context.Background()

	require.NoError(t, s.Users.BumpTokenVersion(ctx, owner.ID))
	require.NoError(t, s.Users.BumpTokenVersion(ctx, owner.ID))
	u, err := s.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.TokenVersion)

	assert.True(t, errors.Is(s.Users.BumpTokenVersion(ctx, "missing"), ErrNotFound))
}
