package domain

import (
	"context"
	"time"
)

// Stats is the headline dashboard card set.
type Stats struct {
	TotalUsers       int64 `json:"total_users"`
	ActiveUsers      int64 `json:"active_users"`
	SuspendedUsers   int64 `json:"suspended_users"`
	BannedUsers      int64 `json:"banned_users"`
	TotalGenerations int64 `json:"total_generations"`
	FeaturedCount    int64 `json:"featured_count"`
	RemovedCount     int64 `json:"removed_count"`
	CreditsSpent     int64 `json:"credits_spent"`
	// ActiveLast7d counts distinct users with a generation in the last 7 days.
	ActiveLast7d int64 `json:"active_last_7d"`
}

// TimelinePoint is one day of generation volume. Days without activity are
// zero-filled so charts render contiguous axes.
type TimelinePoint struct {
	Day         time.Time `json:"day"`
	Generations int64     `json:"generations"`
	Credits     int64     `json:"credits"`
}

// KindBreakdown is generation volume by media kind over a window.
type KindBreakdown struct {
	Kind        GenerationKind `json:"kind"`
	Generations int64          `json:"generations"`
	Credits     int64          `json:"credits"`
}

// GrowthPoint is one week of signups plus the running total.
type GrowthPoint struct {
	Week       time.Time `json:"week"`
	Signups    int64     `json:"signups"`
	TotalUsers int64     `json:"total_users"`
}

// ModelPerformance aggregates per-model outcomes for the model comparison
// table: volume, failure rate, latency, and curation quality.
type ModelPerformance struct {
	ModelKey      string   `json:"model_key"`
	Generations   int64    `json:"generations"`
	Failed        int64    `json:"failed"`
	AvgDurationMs float64  `json:"avg_duration_ms"`
	AvgScore      *float64 `json:"avg_score,omitempty"`
	FeaturedCount int64    `json:"featured_count"`
	CreditsSpent  int64    `json:"credits_spent"`
}

// Window caps: requests beyond these are clamped, not rejected.
const (
	MaxTimelineDays = 365
	MaxGrowthWeeks  = 104

	DefaultTimelineDays = 30
	DefaultGrowthWeeks  = 12
)

// AnalyticsRepository computes aggregates in SQL. All methods are reads.
type AnalyticsRepository interface {
	Stats(ctx context.Context) (*Stats, error)
	Timeline(ctx context.Context, days int) ([]TimelinePoint, error)
	KindBreakdown(ctx context.Context, days int) ([]KindBreakdown, error)
	Growth(ctx context.Context, weeks int) ([]GrowthPoint, error)
	ModelPerformance(ctx context.Context) ([]ModelPerformance, error)
}
