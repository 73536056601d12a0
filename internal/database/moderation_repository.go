package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
)

type ModerationRepo struct {
	pool *pgxpool.Pool
}

func NewModerationRepo(pool *pgxpool.Pool) *ModerationRepo {
	return &ModerationRepo{pool: pool}
}

// --- Warnings ---

func (r *ModerationRepo) InsertWarning(ctx context.Context, userID, issuedBy uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error) {
	var w domain.Warning
	err := r.pool.QueryRow(ctx, `
		INSERT INTO warnings (user_id, issued_by, reason, severity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, issued_by, reason, severity, created_at`,
		userID, issuedBy, reason, severity).Scan(
		&w.ID, &w.UserID, &w.IssuedBy, &w.Reason, &w.Severity, &w.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to insert warning: %w", err)
	}
	return &w, nil
}

func (r *ModerationRepo) ListWarnings(ctx context.Context, userID uuid.UUID) ([]domain.Warning, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, issued_by, reason, severity, created_at
		FROM warnings WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var warnings []domain.Warning
	for rows.Next() {
		var w domain.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.IssuedBy, &w.Reason, &w.Severity, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warning row: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (r *ModerationRepo) DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM warnings WHERE id = $1 AND user_id = $2`, warningID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete warning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWarningNotFound
	}
	return nil
}

// --- Credit ledger ---

func (r *ModerationRepo) ListCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CreditEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, delta, balance, reason, adjusted_by, created_at
		FROM credit_entries WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CreditEntry
	for rows.Next() {
		var e domain.CreditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Balance, &e.Reason, &e.AdjustedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Login history ---

func (r *ModerationRepo) InsertLoginEntry(ctx context.Context, e domain.LoginEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_entries (user_id, ip, user_agent, device_hash, succeeded)
		VALUES ($1, $2, $3, $4, $5)`,
		e.UserID, e.IP, e.UserAgent, e.DeviceHash, e.Succeeded)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert login entry: %w", err)
	}
	return nil
}

func (r *ModerationRepo) ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, ip, user_agent, device_hash, succeeded, created_at
		FROM login_entries WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LoginEntry
	for rows.Next() {
		var e domain.LoginEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.IP, &e.UserAgent, &e.DeviceHash, &e.Succeeded, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan login entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Device blocks ---

func (r *ModerationRepo) InsertDeviceBlock(ctx context.Context, deviceHash string, userID, blockedBy uuid.UUID, reason string) (*domain.DeviceBlock, error) {
	var b domain.DeviceBlock
	err := r.pool.QueryRow(ctx, `
		INSERT INTO device_blocks (device_hash, user_id, reason, blocked_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_hash) DO UPDATE SET reason = EXCLUDED.reason, blocked_by = EXCLUDED.blocked_by
		RETURNING device_hash, user_id, reason, blocked_by, created_at`,
		deviceHash, userID, reason, blockedBy).Scan(
		&b.DeviceHash, &b.UserID, &b.Reason, &b.BlockedBy, &b.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to insert device block: %w", err)
	}
	return &b, nil
}

func (r *ModerationRepo) DeleteDeviceBlock(ctx context.Context, deviceHash string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM device_blocks WHERE device_hash = $1`, deviceHash)
	if err != nil {
		return fmt.Errorf("failed to delete device block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeviceBlockNotFound
	}
	return nil
}

func (r *ModerationRepo) ListDeviceBlocks(ctx context.Context, userID uuid.UUID) ([]domain.DeviceBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT device_hash, user_id, reason, blocked_by, created_at
		FROM device_blocks WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.DeviceBlock
	for rows.Next() {
		var b domain.DeviceBlock
		if err := rows.Scan(&b.DeviceHash, &b.UserID, &b.Reason, &b.BlockedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device block row: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *ModerationRepo) IsDeviceBlocked(ctx context.Context, deviceHash string) (bool, error) {
	var blocked bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM device_blocks WHERE device_hash = $1)`, deviceHash).Scan(&blocked)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to check device block: %w", err)
	}
	return blocked, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
