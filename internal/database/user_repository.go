package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
)

// userColumns is the canonical select list; generation_count is derived, the
// rest map 1:1 to the users table.
const userColumns = `u.id, u.email, u.username, u.display_name, u.password_hash,
	u.role, u.status, u.credits, u.suspended_until, u.suspension_reason,
	(SELECT COUNT(*) FROM generations g WHERE g.user_id = u.id) AS generation_count,
	u.created_at, u.updated_at`

// userReturning mirrors userColumns for INSERT/UPDATE ... RETURNING, where
// the row is addressed by table name instead of the u alias.
const userReturning = `id, email, username, display_name, password_hash,
	role, status, credits, suspended_until, suspension_reason,
	(SELECT COUNT(*) FROM generations g WHERE g.user_id = users.id),
	created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.Role, &u.Status, &u.Credits, &u.SuspendedUntil, &u.SuspensionReason,
		&u.GenerationCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapUniqueViolation converts unique index violations into domain sentinels.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return domain.ErrDuplicateEmail
		case "users_username_key":
			return domain.ErrDuplicateUsername
		}
	}
	return err
}

func (r *UserRepo) Create(ctx context.Context, n domain.NewUser, passwordHash string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, display_name, password_hash, role, credits)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userReturning, n.Email, n.Username, n.DisplayName, passwordHash, n.Role, n.Credits)

	u, err := scanUser(row)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, userID)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	where, args := buildUserFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM users u` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users u` + where +
		fmt.Sprintf(` ORDER BY u.created_at DESC, u.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, total, nil
}

func buildUserFilter(filter domain.UserFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Role != "" {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("u.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(u.email ILIKE $%d OR u.username ILIKE $%d OR u.display_name ILIKE $%d)", n, n, n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *UserRepo) Update(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate, passwordHash string) (*domain.User, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.DisplayName != nil {
		add("display_name", *upd.DisplayName)
	}
	if passwordHash != "" {
		add("password_hash", passwordHash)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, userID)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userReturning)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userReturning, role, userID)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set user role: %w", err)
	}
	return u, nil
}

func (r *UserRepo) SetStatus(ctx context.Context, userID uuid.UUID, status domain.Status, until *time.Time, reason string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET status = $1, suspended_until = $2, suspension_reason = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+userReturning, status, until, reason, userID)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set user status: %w", err)
	}
	return u, nil
}

// AdjustCredits updates the balance and appends the ledger entry in one
// transaction. The WHERE guard keeps the balance non-negative without racing
// concurrent adjustments.
func (r *UserRepo) AdjustCredits(ctx context.Context, userID uuid.UUID, delta int64, reason string, adjustedBy *uuid.UUID) (*domain.User, *domain.CreditEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET credits = credits + $1, updated_at = now()
		WHERE id = $2 AND credits + $1 >= 0
		RETURNING credits`, delta, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Guard failed or no such user; distinguish for the caller.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return nil, nil, fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, domain.ErrInsufficientCredits
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to adjust credits: %w", err)
	}

	var entry domain.CreditEntry
	err = tx.QueryRow(ctx, `
		INSERT INTO credit_entries (user_id, delta, balance, reason, adjusted_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, delta, balance, reason, adjusted_by, created_at`,
		userID, delta, balance, reason, adjustedBy).Scan(
		&entry.ID, &entry.UserID, &entry.Delta, &entry.Balance, &entry.Reason, &entry.AdjustedBy, &entry.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert credit entry: %w", err)
	}

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, userID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return u, &entry, nil
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin' AND status = 'active'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
