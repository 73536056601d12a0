package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/stretchr/testify/require"
)

// CreateTestUser creates an active user with default values for testing.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email string) *domain.User {
	t.Helper()
	return CreateTestUserWithRole(t, pool, email, domain.RoleUser)
}

// CreateTestUserWithRole creates a user with the given role for testing.
func CreateTestUserWithRole(t *testing.T, pool *pgxpool.Pool, email string, role domain.Role) *domain.User {
	t.Helper()

	repo := NewUserRepo(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, domain.NewUser{
		Email:       email,
		Username:    "user_" + uuid.NewString()[:8],
		DisplayName: "Test User",
		Role:        role,
		Credits:     100,
	}, "plain:password")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

// CreateTestGeneration inserts a completed generation for testing.
func CreateTestGeneration(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, modelKey string) *domain.Generation {
	t.Helper()
	return CreateTestGenerationAt(t, pool, userID, modelKey, time.Time{})
}

// CreateTestGenerationAt inserts a completed generation with an explicit
// creation timestamp (zero means now).
func CreateTestGenerationAt(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, modelKey string, createdAt time.Time) *domain.Generation {
	t.Helper()

	repo := NewGenerationRepo(pool)
	ctx := context.Background()

	gen, err := repo.Insert(ctx, domain.NewGeneration{
		UserID:       userID,
		ModelKey:     modelKey,
		Kind:         domain.KindImage,
		Prompt:       "a lighthouse at dusk",
		MediaURL:     fmt.Sprintf("https://media.example.com/%s.png", uuid.NewString()),
		Status:       domain.GenerationCompleted,
		CreditsSpent: 4,
		DurationMs:   1200,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)

	return gen
}
