package database

import (
	"fmt"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// User represents the users table
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Phone       string     `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email       *string    `gorm:"size:200;index" json:"email,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	// TokenVersion is embedded in refresh tokens; bumping it signs the user out
	TokenVersion int `gorm:"not null;default:0" json:"-"`
}

// Organization represents the organizations table
type Organization struct {
	ID                   string          `gorm:"primaryKey;size:36" json:"id"`
	Name                 string          `gorm:"size:200;not null" json:"name"`
	JoinCode             string          `gorm:"size:20;uniqueIndex;not null" json:"join_code"`
	DefaultHourlyRate    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"default_hourly_rate"`
	DefaultContainerRate decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"default_container_rate"`
	DefaultBoxRate       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"default_box_rate"`
	OwnerID              string          `gorm:"size:36;not null" json:"owner_id"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            *time.Time      `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	Projects    []Project                `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Memberships []OrganizationMembership `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// OrganizationMembership represents the organization_memberships table
type OrganizationMembership struct {
	ID             string              `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string              `gorm:"size:36;uniqueIndex:idx_org_user;not null" json:"organization_id"`
	UserID         string              `gorm:"size:36;uniqueIndex:idx_org_user;not null" json:"user_id"`
	Role           OrgRole             `gorm:"size:20;not null" json:"role"`
	Status         MemberStatus        `gorm:"size:20;not null" json:"status"`
	HourlyRate     decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"hourly_rate"`
	ContainerRate  decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"container_rate"`
	BoxRate        decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"box_rate"`
	JoinedAt       time.Time           `json:"joined_at"`
	UpdatedAt      *time.Time          `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// JoinRequest represents the join_requests table
type JoinRequest struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string            `gorm:"size:36;index;not null" json:"organization_id"`
	UserID         string            `gorm:"size:36;index;not null" json:"user_id"`
	Status         JoinRequestStatus `gorm:"size:20;not null" json:"status"`
	RequestedAt    time.Time         `json:"requested_at"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Project represents the projects table
type Project struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string          `gorm:"size:36;index;not null" json:"organization_id"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	Location       *string         `gorm:"size:500" json:"location,omitempty"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	Notes          *string         `gorm:"size:1000" json:"notes,omitempty"`
	WorkType       WorkType        `gorm:"size:20;not null" json:"work_type"`
	Rate           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"rate"`
	ContractStatus ContractStatus  `gorm:"size:20;not null" json:"contract_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	Shifts []Shift `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Shift represents the shifts table. Dates are YYYY-MM-DD and times HH:mm text
// so that range filters are plain string comparisons.
type Shift struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID      string    `gorm:"size:36;index;not null" json:"project_id"`
	ShiftDate      string    `gorm:"size:10;index;not null" json:"shift_date"`
	StartTime      string    `gorm:"size:5;not null" json:"start_time"`
	EndTime        string    `gorm:"size:5;not null" json:"end_time"`
	TargetQuantity *int      `json:"target_quantity,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Assignments []WorkerAssignment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// WorkerAssignment represents the worker_assignments table
type WorkerAssignment struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	ShiftID        string           `gorm:"size:36;uniqueIndex:idx_shift_user;not null" json:"shift_id"`
	UserID         string           `gorm:"size:36;uniqueIndex:idx_shift_user;index;not null" json:"user_id"`
	Status         AssignmentStatus `gorm:"size:20;not null" json:"status"`
	ActualQuantity *int             `json:"actual_quantity,omitempty"`
	Notes          *string          `gorm:"size:1000" json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	Shift *Shift `gorm:"foreignKey:ShiftID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Notification represents the notifications table
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"size:2000;not null" json:"message"`
	Data      *string   `json:"data,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error                   { newID(&u.ID); return nil }
func (o *Organization) BeforeCreate(*gorm.DB) error           { newID(&o.ID); return nil }
func (m *OrganizationMembership) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (j *JoinRequest) BeforeCreate(*gorm.DB) error            { newID(&j.ID); return nil }
func (p *Project) BeforeCreate(*gorm.DB) error                { newID(&p.ID); return nil }
func (s *Shift) BeforeCreate(*gorm.DB) error                  { newID(&s.ID); return nil }
func (a *WorkerAssignment) BeforeCreate(*gorm.DB) error       { newID(&a.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error           { newID(&n.ID); return nil }

// Models lists every table in migration order
func Models() []any {
	return []any{
		&User{}, &Organization{}, &OrganizationMembership{}, &JoinRequest{},
		&Project{}, &Shift{}, &WorkerAssignment{}, &Notification{},
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SQLiteDSN builds a sqlite DSN with foreign keys enforced
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", path)
}

// Open connects to postgres when DATABASE_URL is set, otherwise to a sqlite file
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		PrepareStmt: false,
		Logger:      logger.Default.LogMode(logger.Warn),
	}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), gormCfg)
	}
	return gorm.Open(sqlite.Open(SQLiteDSN(cfg.DataPath)), gormCfg)
}

// InitDB initializes the database connection and migrates the schema
func InitDB(cfg *config.Config, log logrus.FieldLogger) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
