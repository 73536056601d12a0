package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GenerationKind is the media kind produced by a generation job.
type GenerationKind string

const (
	KindImage GenerationKind = "image"
	KindVideo GenerationKind = "video"
	KindAudio GenerationKind = "audio"
)

func (k GenerationKind) Valid() bool {
	switch k {
	case KindImage, KindVideo, KindAudio:
		return true
	}
	return false
}

// GenerationStatus tracks a generation through its lifecycle. Removed rows
// stay in place (soft delete) so credit entries keep their referent.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
	GenerationRemoved   GenerationStatus = "removed"
)

func (s GenerationStatus) Valid() bool {
	switch s {
	case GenerationPending, GenerationCompleted, GenerationFailed, GenerationRemoved:
		return true
	}
	return false
}

// Score bounds for feed curation.
const (
	MinScore = 0
	MaxScore = 100
)

// Generation is one generated media item. Media lives behind server-managed
// URLs; this service never touches the bytes.
type Generation struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	Username      string           `json:"username,omitempty"`
	ModelKey      string           `json:"model_key"`
	Kind          GenerationKind   `json:"kind"`
	Prompt        string           `json:"prompt"`
	MediaURL      string           `json:"media_url"`
	ThumbURL      string           `json:"thumb_url,omitempty"`
	Status        GenerationStatus `json:"status"`
	CreditsSpent  int64            `json:"credits_spent"`
	DurationMs    int64            `json:"duration_ms"`
	Score         *int             `json:"score,omitempty"`
	Featured      bool             `json:"featured"`
	RemovedReason string           `json:"removed_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// GenerationFilter narrows List results. Zero values mean "no filter";
// IncludeRemoved widens the default completed/pending/failed view.
type GenerationFilter struct {
	UserID         uuid.UUID
	ModelKey       string
	Kind           GenerationKind
	Status         GenerationStatus
	FeaturedOnly   bool
	MinScore       *int
	IncludeRemoved bool
	Limit          int
	Cursor         Cursor
}

// NewGeneration carries the fields recorded when the platform reports a
// finished job. The console only reads these; Insert exists for the seed
// binary and tests.
type NewGeneration struct {
	UserID       uuid.UUID
	ModelKey     string
	Kind         GenerationKind
	Prompt       string
	MediaURL     string
	ThumbURL     string
	Status       GenerationStatus
	CreditsSpent int64
	DurationMs   int64
	CreatedAt    time.Time
}

// GenerationRepository abstracts generation persistence.
type GenerationRepository interface {
	Insert(ctx context.Context, n NewGeneration) (*Generation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Generation, error)
	// List returns one page in reverse chronological order plus the cursor
	// for the next page (zero Cursor when exhausted).
	List(ctx context.Context, filter GenerationFilter) ([]Generation, Cursor, error)
	SetScore(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*Generation, error)
	SoftDelete(ctx context.Context, id uuid.UUID, reason string) (*Generation, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}
