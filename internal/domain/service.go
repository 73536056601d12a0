package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginInput carries one credential attempt plus the request metadata that
// ends up in the login history.
type LoginInput struct {
	Email      string
	Password   string
	IP         string
	UserAgent  string
	DeviceHash string
}

// UserDetail bundles everything the user drawer shows in one response.
type UserDetail struct {
	User          User          `json:"user"`
	Warnings      []Warning     `json:"warnings"`
	CreditEntries []CreditEntry `json:"credit_entries"`
	LoginEntries  []LoginEntry  `json:"login_entries"`
	DeviceBlocks  []DeviceBlock `json:"device_blocks"`
}

// AdminService is the application layer contract. Handlers route all
// operations through here.
type AdminService interface {
	// Sessions
	Login(ctx context.Context, in LoginInput) (*User, *Session, error)
	Logout(ctx context.Context, token string) error
	VerifySession(ctx context.Context, token string) (*Session, *User, error)

	// Users and moderation
	ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error)
	GetUserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error)
	CreateUser(ctx context.Context, n NewUser) (*User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*User, error)
	ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role Role) (*User, error)
	SuspendUser(ctx context.Context, actorID, userID uuid.UUID, until time.Time, reason string) (*User, error)
	BanUser(ctx context.Context, actorID, userID uuid.UUID, reason string) (*User, error)
	ReactivateUser(ctx context.Context, userID uuid.UUID) (*User, error)
	AdjustCredits(ctx context.Context, actorID, userID uuid.UUID, delta int64, reason string) (*User, *CreditEntry, error)
	WarnUser(ctx context.Context, actorID, userID uuid.UUID, reason string, severity WarningSeverity) (*Warning, error)
	DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error
	ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]LoginEntry, error)
	BlockDevice(ctx context.Context, actorID, userID uuid.UUID, deviceHash, reason string) (*DeviceBlock, error)
	UnblockDevice(ctx context.Context, deviceHash string) error
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error

	// Feed curation
	ListGenerations(ctx context.Context, filter GenerationFilter) ([]Generation, Cursor, error)
	GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error)
	ScoreGeneration(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*Generation, error)
	RemoveGeneration(ctx context.Context, id uuid.UUID, reason string) (*Generation, error)
	HardDeleteGeneration(ctx context.Context, id uuid.UUID) error

	// Analytics
	Stats(ctx context.Context) (*Stats, error)
	Timeline(ctx context.Context, days int) ([]TimelinePoint, error)
	KindBreakdown(ctx context.Context, days int) ([]KindBreakdown, error)
	Growth(ctx context.Context, weeks int) ([]GrowthPoint, error)
	ModelPerformance(ctx context.Context) ([]ModelPerformance, error)
}
