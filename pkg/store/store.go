// Package store is the repository layer over gorm. Every repository is bound to a
// *gorm.DB, so the same code runs against the pool or inside a transaction.
package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a single-row lookup matches nothing
var ErrNotFound = errors.New("record not found")

// Store aggregates the repositories sharing one connection or transaction
type Store struct {
	db *gorm.DB

	Users         *UserStore
	Organizations *OrganizationStore
	Memberships   *MembershipStore
	JoinRequests  *JoinRequestStore
	Projects      *ProjectStore
	Shifts        *ShiftStore
	Assignments   *AssignmentStore
	Notifications *NotificationStore
}

// New binds every repository to db
func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &UserStore{db: db},
		Organizations: &OrganizationStore{db: db},
		Memberships:   &MembershipStore{db: db},
		JoinRequests:  &JoinRequestStore{db: db},
		Projects:      &ProjectStore{db: db},
		Shifts:        &ShiftStore{db: db},
		Assignments:   &AssignmentStore{db: db},
		Notifications: &NotificationStore{db: db},
	}
}

// DB exposes the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DateRange bounds shift dates inclusively; empty ends are open
type DateRange struct {
	From string
	To   string
}

func (r *DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if r == nil {
		return q
	}
	if r.From != "" {
		q = q.Where(column+" >= ?", r.From)
	}
	if r.To != "" {
		q = q.Where(column+" <= ?", r.To)
	}
	return q
}

func first(q *gorm.DB, dest any) error {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
