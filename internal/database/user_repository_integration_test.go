package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, domain.NewUser{
		Email:       "alice@example.com",
		Username:    "alice",
		DisplayName: "Alice",
		Role:        domain.RoleCurator,
		Credits:     50,
	}, "plain:secret")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleCurator, user.Role)
	assert.Equal(t, domain.StatusActive, user.Status)
	assert.Equal(t, int64(50), user.Credits)
	assert.Equal(t, "plain:secret", user.PasswordHash)
	assert.Zero(t, user.GenerationCount)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	CreateTestUser(t, pool, "bob@example.com")

	_, err := repo.Create(ctx, domain.NewUser{
		Email:    "BOB@example.com", // case-insensitive uniqueness
		Username: "bob2",
	}, "plain:x")

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewUser{Email: "a@example.com", Username: "taken"}, "plain:x")
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.NewUser{Email: "b@example.com", Username: "Taken"}, "plain:x")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestGetByEmail(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	created := CreateTestUser(t, pool, "carol@example.com")

	user, err := repo.GetByEmail(ctx, "CAROL@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetByID_GenerationCount(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "dave@example.com")
	CreateTestGeneration(t, pool, user.ID, "flux-schnell")
	CreateTestGeneration(t, pool, user.ID, "flux-schnell")

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.GenerationCount)
}

func TestListUsers_Filters(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	CreateTestUserWithRole(t, pool, "admin@example.com", domain.RoleAdmin)
	CreateTestUserWithRole(t, pool, "curator@example.com", domain.RoleCurator)
	lurker := CreateTestUser(t, pool, "lurker@example.com")

	_, err := repo.SetStatus(ctx, lurker.ID, domain.StatusBanned, nil, "spam")
	require.NoError(t, err)

	users, total, err := repo.List(ctx, domain.UserFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	users, total, err = repo.List(ctx, domain.UserFilter{Role: domain.RoleAdmin, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "admin@example.com", users[0].Email)

	users, total, err = repo.List(ctx, domain.UserFilter{Status: domain.StatusBanned, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, lurker.ID, users[0].ID)

	_, total, err = repo.List(ctx, domain.UserFilter{Search: "curator", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestListUsers_Pagination(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		CreateTestUser(t, pool, uuid.NewString()+"@example.com")
	}

	first, total, err := repo.List(ctx, domain.UserFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, first, 2)

	second, _, err := repo.List(ctx, domain.UserFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[1].ID, second[1].ID)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "erin@example.com")

	newDisplay := "Erin the Curator"
	updated, err := repo.Update(ctx, user.ID, domain.UserUpdate{DisplayName: &newDisplay}, "")
	require.NoError(t, err)
	assert.Equal(t, newDisplay, updated.DisplayName)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	updated, err = repo.Update(ctx, user.ID, domain.UserUpdate{}, "plain:newpass")
	require.NoError(t, err)
	assert.Equal(t, "plain:newpass", updated.PasswordHash)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	CreateTestUser(t, pool, "first@example.com")
	second := CreateTestUser(t, pool, "second@example.com")

	dup := "first@example.com"
	_, err := repo.Update(ctx, second.ID, domain.UserUpdate{Email: &dup}, "")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestSetStatus_Suspend(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "frank@example.com")
	until := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)

	updated, err := repo.SetStatus(ctx, user.ID, domain.StatusSuspended, &until, "prompt abuse")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, updated.Status)
	require.NotNil(t, updated.SuspendedUntil)
	assert.WithinDuration(t, until, *updated.SuspendedUntil, time.Second)
	assert.Equal(t, "prompt abuse", updated.SuspensionReason)

	// Reactivation clears the suspension fields.
	updated, err = repo.SetStatus(ctx, user.ID, domain.StatusActive, nil, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, updated.Status)
	assert.Nil(t, updated.SuspendedUntil)
	assert.Empty(t, updated.SuspensionReason)
}

func TestAdjustCredits(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	modRepo := NewModerationRepo(pool)
	ctx := context.Background()

	admin := CreateTestUserWithRole(t, pool, "admin@example.com", domain.RoleAdmin)
	user := CreateTestUser(t, pool, "grace@example.com") // starts with 100

	updated, entry, err := repo.AdjustCredits(ctx, user.ID, -30, "refund reversal", &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), updated.Credits)
	assert.Equal(t, int64(-30), entry.Delta)
	assert.Equal(t, int64(70), entry.Balance)
	require.NotNil(t, entry.AdjustedBy)
	assert.Equal(t, admin.ID, *entry.AdjustedBy)

	entries, err := modRepo.ListCreditEntries(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(70), entries[0].Balance)
}

func TestAdjustCredits_RejectsNegativeBalance(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	user := CreateTestUser(t, pool, "henry@example.com") // 100 credits

	_, _, err := repo.AdjustCredits(ctx, user.ID, -101, "overdraw", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

	// Balance unchanged and no ledger entry written.
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Credits)

	entries, err := NewModerationRepo(pool).ListCreditEntries(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdjustCredits_UnknownUser(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)

	_, _, err := repo.AdjustCredits(context.Background(), uuid.New(), 10, "grant", nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	modRepo := NewModerationRepo(pool)
	genRepo := NewGenerationRepo(pool)
	ctx := context.Background()

	admin := CreateTestUserWithRole(t, pool, "admin@example.com", domain.RoleAdmin)
	user := CreateTestUser(t, pool, "ivy@example.com")
	gen := CreateTestGeneration(t, pool, user.ID, "flux-dev")
	_, err := modRepo.InsertWarning(ctx, user.ID, admin.ID, "reported output", domain.SeverityNotice)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = genRepo.GetByID(ctx, gen.ID)
	assert.ErrorIs(t, err, domain.ErrGenerationNotFound)
	warnings, err := modRepo.ListWarnings(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), domain.ErrUserNotFound)
}

func TestCountActiveAdmins(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	count, err := repo.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	admin := CreateTestUserWithRole(t, pool, "admin@example.com", domain.RoleAdmin)
	CreateTestUserWithRole(t, pool, "curator@example.com", domain.RoleCurator)

	count, err = repo.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Banned admins no longer count.
	_, err = repo.SetStatus(ctx, admin.ID, domain.StatusBanned, nil, "compromised")
	require.NoError(t, err)

	count, err = repo.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
