package redis

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiter_AllowsWithinBudget(t *testing.T) {
	client := setupTestClient(t)
	limiter := NewLoginLimiter(client.Underlying(), clockwork.NewRealClock(), 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoginLimiter_KeysAreScoped(t *testing.T) {
	client := setupTestClient(t)
	limiter := NewLoginLimiter(client.Underlying(), clockwork.NewRealClock(), 1, time.Minute)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Different IP and different email each get their own window.
	allowed, err = limiter.Allow(ctx, "admin@example.com", "203.0.113.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "other@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Email matching is case-insensitive.
	allowed, err = limiter.Allow(ctx, "ADMIN@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoginLimiter_ResetClearsWindow(t *testing.T) {
	client := setupTestClient(t)
	limiter := NewLoginLimiter(client.Underlying(), clockwork.NewRealClock(), 1, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "admin@example.com", "203.0.113.1"))

	allowed, err = limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	client := setupTestClient(t)
	limiter := NewLoginLimiter(client.Underlying(), clockwork.NewRealClock(), 1, time.Second)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(1500 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, "admin@example.com", "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
