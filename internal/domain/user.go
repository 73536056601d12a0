package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a platform account role. Console access requires curator or admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleCurator Role = "curator"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCurator, RoleAdmin:
		return true
	}
	return false
}

// CanUseConsole reports whether the role grants console login.
func (r Role) CanUseConsole() bool {
	return r == RoleCurator || r == RoleAdmin
}

// Status is a platform account status.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusBanned    Status = "banned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

// User is a platform account as stored by the server. PasswordHash is never
// serialized; suspension fields are only meaningful while Status is suspended.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"display_name"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Status           Status     `json:"status"`
	Credits          int64      `json:"credits"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
	SuspensionReason string     `json:"suspension_reason,omitempty"`
	GenerationCount  int64      `json:"generation_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SuspensionLapsed reports whether a suspended user's term has already passed.
func (u *User) SuspensionLapsed(now time.Time) bool {
	return u.Status == StatusSuspended && u.SuspendedUntil != nil && u.SuspendedUntil.Before(now)
}

// UserFilter narrows List results. Zero values mean "no filter".
type UserFilter struct {
	Role   Role
	Status Status
	Search string // matches email, username, display name
	Limit  int
	Offset int
}

// NewUser carries the fields needed to create an account from the console.
type NewUser struct {
	Email       string
	Username    string
	DisplayName string
	Password    string
	Role        Role
	Credits     int64
}

// UserUpdate is a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Email       *string
	Username    *string
	DisplayName *string
	Password    *string
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, n NewUser, passwordHash string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, userID uuid.UUID, upd UserUpdate, passwordHash string) (*User, error)
	SetRole(ctx context.Context, userID uuid.UUID, role Role) (*User, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status Status, until *time.Time, reason string) (*User, error)
	AdjustCredits(ctx context.Context, userID uuid.UUID, delta int64, reason string, adjustedBy *uuid.UUID) (*User, *CreditEntry, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	CountActiveAdmins(ctx context.Context) (int64, error)
}
