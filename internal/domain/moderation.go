package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WarningSeverity escalates from notice to final. Three strikes is a
// convention of the moderation team, not an enforced rule.
type WarningSeverity string

const (
	SeverityNotice WarningSeverity = "notice"
	SeverityStrike WarningSeverity = "strike"
	SeverityFinal  WarningSeverity = "final"
)

func (s WarningSeverity) Valid() bool {
	switch s {
	case SeverityNotice, SeverityStrike, SeverityFinal:
		return true
	}
	return false
}

// Warning is a moderation note attached to a user account.
type Warning struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	IssuedBy  uuid.UUID       `json:"issued_by"`
	Reason    string          `json:"reason"`
	Severity  WarningSeverity `json:"severity"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreditEntry is one row of the append-only credit ledger. Balance is the
// user's balance after Delta was applied. AdjustedBy is nil for platform
// spend and set for manual console adjustments.
type CreditEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Delta      int64      `json:"delta"`
	Balance    int64      `json:"balance"`
	Reason     string     `json:"reason"`
	AdjustedBy *uuid.UUID `json:"adjusted_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LoginEntry records one login attempt, successful or not. DeviceHash is an
// opaque fingerprint produced platform-side; the console never derives it.
type LoginEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	DeviceHash string    `json:"device_hash"`
	Succeeded  bool      `json:"succeeded"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeviceBlock bars a device fingerprint from logging in. UserID records the
// account the block was applied through, for display only. The block itself
// is keyed on the hash and applies to any account.
type DeviceBlock struct {
	DeviceHash string    `json:"device_hash"`
	UserID     uuid.UUID `json:"user_id"`
	Reason     string    `json:"reason"`
	BlockedBy  uuid.UUID `json:"blocked_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModerationRepository groups the per-user moderation records: warnings,
// the credit ledger, login history, and device blocks.
type ModerationRepository interface {
	InsertWarning(ctx context.Context, userID, issuedBy uuid.UUID, reason string, severity WarningSeverity) (*Warning, error)
	ListWarnings(ctx context.Context, userID uuid.UUID) ([]Warning, error)
	DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error

	ListCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]CreditEntry, error)

	InsertLoginEntry(ctx context.Context, e LoginEntry) error
	ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]LoginEntry, error)

	InsertDeviceBlock(ctx context.Context, deviceHash string, userID, blockedBy uuid.UUID, reason string) (*DeviceBlock, error)
	DeleteDeviceBlock(ctx context.Context, deviceHash string) error
	ListDeviceBlocks(ctx context.Context, userID uuid.UUID) ([]DeviceBlock, error)
	IsDeviceBlocked(ctx context.Context, deviceHash string) (bool, error)
}
