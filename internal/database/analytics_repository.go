package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/metrics"
)

// AnalyticsRepo computes dashboard aggregates in SQL. Time windows are
// zero-filled with generate_series so charts get contiguous axes.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func observeQuery(name string, start time.Time) {
	metrics.AnalyticsQueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (r *AnalyticsRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	defer observeQuery("stats", time.Now())

	var s domain.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE status = 'active'),
			(SELECT COUNT(*) FROM users WHERE status = 'suspended'),
			(SELECT COUNT(*) FROM users WHERE status = 'banned'),
			(SELECT COUNT(*) FROM generations),
			(SELECT COUNT(*) FROM generations WHERE featured),
			(SELECT COUNT(*) FROM generations WHERE status = 'removed'),
			(SELECT COALESCE(SUM(credits_spent), 0) FROM generations),
			(SELECT COUNT(DISTINCT user_id) FROM generations WHERE created_at >= now() - interval '7 days')`,
	).Scan(
		&s.TotalUsers, &s.ActiveUsers, &s.SuspendedUsers, &s.BannedUsers,
		&s.TotalGenerations, &s.FeaturedCount, &s.RemovedCount, &s.CreditsSpent,
		&s.ActiveLast7d,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &s, nil
}

func (r *AnalyticsRepo) Timeline(ctx context.Context, days int) ([]domain.TimelinePoint, error) {
	defer observeQuery("timeline", time.Now())

	rows, err := r.pool.Query(ctx, `
		SELECT d, COUNT(g.id), COALESCE(SUM(g.credits_spent), 0)
		FROM generate_series(
			date_trunc('day', now()) - ($1 - 1) * interval '1 day',
			date_trunc('day', now()),
			interval '1 day') AS d
		LEFT JOIN generations g ON date_trunc('day', g.created_at) = d
		GROUP BY d
		ORDER BY d`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to compute timeline: %w", err)
	}
	defer rows.Close()

	points := make([]domain.TimelinePoint, 0, days)
	for rows.Next() {
		var p domain.TimelinePoint
		if err := rows.Scan(&p.Day, &p.Generations, &p.Credits); err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *AnalyticsRepo) KindBreakdown(ctx context.Context, days int) ([]domain.KindBreakdown, error) {
	defer observeQuery("breakdown", time.Now())

	rows, err := r.pool.Query(ctx, `
		SELECT kind, COUNT(*), COALESCE(SUM(credits_spent), 0)
		FROM generations
		WHERE created_at >= now() - $1 * interval '1 day'
		GROUP BY kind
		ORDER BY COUNT(*) DESC`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to compute kind breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []domain.KindBreakdown
	for rows.Next() {
		var b domain.KindBreakdown
		if err := rows.Scan(&b.Kind, &b.Generations, &b.Credits); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		breakdown = append(breakdown, b)
	}
	return breakdown, rows.Err()
}

func (r *AnalyticsRepo) Growth(ctx context.Context, weeks int) ([]domain.GrowthPoint, error) {
	defer observeQuery("growth", time.Now())

	// Running total = users that existed before the window plus the
	// cumulative weekly signups inside it.
	rows, err := r.pool.Query(ctx, `
		WITH wk AS (
			SELECT generate_series(
				date_trunc('week', now()) - ($1 - 1) * interval '1 week',
				date_trunc('week', now()),
				interval '1 week') AS week
		),
		signups AS (
			SELECT date_trunc('week', created_at) AS week, COUNT(*) AS n
			FROM users
			GROUP BY 1
		),
		base AS (
			SELECT COUNT(*) AS n FROM users
			WHERE created_at < date_trunc('week', now()) - ($1 - 1) * interval '1 week'
		)
		SELECT wk.week,
		       COALESCE(signups.n, 0),
		       base.n + SUM(COALESCE(signups.n, 0)) OVER (ORDER BY wk.week)
		FROM wk
		LEFT JOIN signups USING (week), base
		ORDER BY wk.week`, weeks)
	if err != nil {
		return nil, fmt.Errorf("failed to compute growth: %w", err)
	}
	defer rows.Close()

	points := make([]domain.GrowthPoint, 0, weeks)
	for rows.Next() {
		var p domain.GrowthPoint
		if err := rows.Scan(&p.Week, &p.Signups, &p.TotalUsers); err != nil {
			return nil, fmt.Errorf("failed to scan growth row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *AnalyticsRepo) ModelPerformance(ctx context.Context) ([]domain.ModelPerformance, error) {
	defer observeQuery("models", time.Now())

	rows, err := r.pool.Query(ctx, `
		SELECT model_key,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COALESCE(AVG(duration_ms), 0),
		       AVG(score),
		       COUNT(*) FILTER (WHERE featured),
		       COALESCE(SUM(credits_spent), 0)
		FROM generations
		GROUP BY model_key
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute model performance: %w", err)
	}
	defer rows.Close()

	var models []domain.ModelPerformance
	for rows.Next() {
		var m domain.ModelPerformance
		if err := rows.Scan(&m.ModelKey, &m.Generations, &m.Failed, &m.AvgDurationMs, &m.AvgScore, &m.FeaturedCount, &m.CreditsSpent); err != nil {
			return nil, fmt.Errorf("failed to scan model performance row: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}
