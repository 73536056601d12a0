package database

import (
	"context"
	"testing"
	"time"

	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	pool := setupTestDB(t)
	analytics := NewAnalyticsRepo(pool)
	users := NewUserRepo(pool)
	gens := NewGenerationRepo(pool)
	ctx := context.Background()

	active := CreateTestUser(t, pool, "active@example.com")
	banned := CreateTestUser(t, pool, "banned@example.com")
	_, err := users.SetStatus(ctx, banned.ID, domain.StatusBanned, nil, "tos violation")
	require.NoError(t, err)

	g1 := CreateTestGeneration(t, pool, active.ID, "flux-schnell")
	CreateTestGeneration(t, pool, active.ID, "sora-lite")

	featured := true
	_, err = gens.SetScore(ctx, g1.ID, nil, &featured)
	require.NoError(t, err)

	stats, err := analytics.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.Equal(t, int64(0), stats.SuspendedUsers)
	assert.Equal(t, int64(2), stats.TotalGenerations)
	assert.Equal(t, int64(1), stats.FeaturedCount)
	assert.Equal(t, int64(0), stats.RemovedCount)
	assert.Equal(t, int64(8), stats.CreditsSpent)
	assert.Equal(t, int64(1), stats.ActiveLast7d)
}

func TestTimeline_ZeroFillsQuietDays(t *testing.T) {
	pool := setupTestDB(t)
	analytics := NewAnalyticsRepo(pool)

	user := CreateTestUser(t, pool, "timeline@example.com")
	now := time.Now().UTC()
	CreateTestGenerationAt(t, pool, user.ID, "flux-schnell", now)
	CreateTestGenerationAt(t, pool, user.ID, "flux-schnell", now.Add(-48*time.Hour))

	points, err := analytics.Timeline(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	var total int64
	var quiet int
	for _, p := range points {
		total += p.Generations
		if p.Generations == 0 {
			assert.Zero(t, p.Credits)
			quiet++
		}
	}
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 5, quiet)

	// Contiguous, ascending day axis.
	for i := 1; i < len(points); i++ {
		assert.Equal(t, 24*time.Hour, points[i].Day.Sub(points[i-1].Day))
	}
	today := points[len(points)-1]
	assert.Equal(t, int64(1), today.Generations)
	assert.Equal(t, int64(4), today.Credits)
}

func TestKindBreakdown_WindowExcludesOldRows(t *testing.T) {
	pool := setupTestDB(t)
	analytics := NewAnalyticsRepo(pool)

	user := CreateTestUser(t, pool, "kinds@example.com")
	now := time.Now().UTC()
	CreateTestGenerationAt(t, pool, user.ID, "flux-schnell", now)
	CreateTestGenerationAt(t, pool, user.ID, "flux-schnell", now.Add(-90*24*time.Hour))

	breakdown, err := analytics.KindBreakdown(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, breakdown, 1)
	assert.Equal(t, domain.KindImage, breakdown[0].Kind)
	assert.Equal(t, int64(1), breakdown[0].Generations)
	assert.Equal(t, int64(4), breakdown[0].Credits)
}

func TestGrowth_RunningTotalIncludesPreWindowUsers(t *testing.T) {
	pool := setupTestDB(t)
	analytics := NewAnalyticsRepo(pool)
	ctx := context.Background()

	// One user created before the window, one inside it.
	old := CreateTestUser(t, pool, "early@example.com")
	_, err := pool.Exec(ctx, `UPDATE users SET created_at = now() - interval '10 weeks' WHERE id = $1`, old.ID)
	require.NoError(t, err)
	CreateTestUser(t, pool, "recent@example.com")

	points, err := analytics.Growth(ctx, 4)
	require.NoError(t, err)
	require.Len(t, points, 4)

	first := points[0]
	assert.Equal(t, int64(0), first.Signups)
	assert.Equal(t, int64(1), first.TotalUsers)

	last := points[len(points)-1]
	assert.Equal(t, int64(1), last.Signups)
	assert.Equal(t, int64(2), last.TotalUsers)

	// The running total never decreases.
	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].TotalUsers, points[i-1].TotalUsers)
	}
}

func TestModelPerformance(t *testing.T) {
	pool := setupTestDB(t)
	analytics := NewAnalyticsRepo(pool)
	gens := NewGenerationRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "models@example.com")
	g1 := CreateTestGeneration(t, pool, user.ID, "flux-schnell")
	CreateTestGeneration(t, pool, user.ID, "flux-schnell")
	CreateTestGeneration(t, pool, user.ID, "sora-lite")

	score := 90
	featured := true
	_, err := gens.SetScore(ctx, g1.ID, &score, &featured)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE generations SET status = 'failed' WHERE model_key = 'sora-lite'`)
	require.NoError(t, err)

	models, err := analytics.ModelPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, models, 2)

	// Ordered by volume descending.
	flux := models[0]
	assert.Equal(t, "flux-schnell", flux.ModelKey)
	assert.Equal(t, int64(2), flux.Generations)
	assert.Equal(t, int64(0), flux.Failed)
	assert.Equal(t, int64(1), flux.FeaturedCount)
	require.NotNil(t, flux.AvgScore)
	assert.InDelta(t, 90.0, *flux.AvgScore, 0.001)

	sora := models[1]
	assert.Equal(t, int64(1), sora.Failed)
	assert.Nil(t, sora.AvgScore)
}
