package testdb

import (
	"fmt"
	"testing"

	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// User inserts a user with a generated phone number
func User(t *testing.T, db *gorm.DB, name string) database.User {
	t.Helper()
	u := database.User{Name: name, Phone: fmt.Sprintf("+1555%07d", seq.Add(1))}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Organization inserts an organization owned by ownerID, with the owner membership
func Organization(t *testing.T, db *gorm.DB, ownerID string) database.Organization {
	t.Helper()
	o := database.Organization{
		Name:                 "Dockside Logistics",
		JoinCode:             fmt.Sprintf("JC%06d", seq.Add(1)),
		DefaultHourlyRate:    decimal.NewFromInt(20),
		DefaultContainerRate: decimal.NewFromInt(50),
		DefaultBoxRate:       decimal.NewFromFloat(0.5),
		OwnerID:              ownerID,
	}
	require.NoError(t, db.Create(&o).Error)
	Member(t, db, o.ID, ownerID, database.RoleOwner)
	return o
}

// Member inserts an active membership
func Member(t *testing.T, db *gorm.DB, orgID, userID string, role database.OrgRole) database.OrganizationMembership {
	t.Helper()
	m := database.OrganizationMembership{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		Status:         database.MemberActive,
	}
	require.NoError(t, db.Omit("User").Create(&m).Error)
	return m
}

// Project inserts an hourly project with the given contract status
func Project(t *testing.T, db *gorm.DB, orgID string, status database.ContractStatus) database.Project {
	t.Helper()
	p := database.Project{
		OrganizationID: orgID,
		Name:           "Pier 9 unload",
		WorkType:       database.WorkHourly,
		Rate:           decimal.NewFromInt(25),
		ContractStatus: status,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// Shift inserts a shift for projectID
func Shift(t *testing.T, db *gorm.DB, projectID, date, start, end string) database.Shift {
	t.Helper()
	s := database.Shift{ProjectID: projectID, ShiftDate: date, StartTime: start, EndTime: end}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// Assignment inserts a pending assignment
func Assignment(t *testing.T, db *gorm.DB, shiftID, userID string) database.WorkerAssignment {
	t.Helper()
	a := database.WorkerAssignment{ShiftID: shiftID, UserID: userID, Status: database.StatusPending}
	require.NoError(t, db.Omit("Shift", "User").Create(&a).Error)
	return a
}
