package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authentication Metrics
var (
	// LoginsTotal tracks console login attempts by outcome
	// (success, bad_credentials, forbidden, suspended, banned, device_blocked, throttled)
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_logins_total",
			Help: "Console login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SessionsActive tracks sessions created minus sessions ended. Drift from
	// Redis-side TTL expiry is expected; the gauge is a trend indicator only.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_sessions_active",
			Help: "Console sessions created minus explicitly ended",
		},
	)
)

// Moderation Metrics
var (
	// ModerationActionsTotal tracks moderation actions by action name
	// (suspend, ban, reactivate, warn, credit_adjust, device_block, ...)
	ModerationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Moderation actions applied by action name",
		},
		[]string{"action"},
	)

	// GenerationReviewsTotal tracks feed curation verdicts
	// (scored, featured, unfeatured, removed, hard_deleted)
	GenerationReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_reviews_total",
			Help: "Feed curation actions by verdict",
		},
		[]string{"verdict"},
	)
)

// Analytics Cache Metrics
var (
	// AnalyticsCacheHits tracks analytics cache hits by query
	AnalyticsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Analytics cache hits by query",
		},
		[]string{"query"},
	)

	// AnalyticsCacheMisses tracks analytics cache misses by query
	AnalyticsCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Analytics cache misses by query",
		},
		[]string{"query"},
	)

	// AnalyticsQueryDuration tracks SQL aggregate latency per query
	AnalyticsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Analytics SQL aggregate duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"query"},
	)
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
