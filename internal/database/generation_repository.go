package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
)

const generationColumns = `g.id, g.user_id, u.username, g.model_key, g.kind, g.prompt,
	g.media_url, g.thumb_url, g.status, g.credits_spent, g.duration_ms,
	g.score, g.featured, g.removed_reason, g.created_at, g.updated_at`

type GenerationRepo struct {
	pool *pgxpool.Pool
}

func NewGenerationRepo(pool *pgxpool.Pool) *GenerationRepo {
	return &GenerationRepo{pool: pool}
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var g domain.Generation
	err := row.Scan(
		&g.ID, &g.UserID, &g.Username, &g.ModelKey, &g.Kind, &g.Prompt,
		&g.MediaURL, &g.ThumbURL, &g.Status, &g.CreditsSpent, &g.DurationMs,
		&g.Score, &g.Featured, &g.RemovedReason, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GenerationRepo) Insert(ctx context.Context, n domain.NewGeneration) (*domain.Generation, error) {
	createdAt := "now()"
	args := []any{n.UserID, n.ModelKey, n.Kind, n.Prompt, n.MediaURL, n.ThumbURL, n.Status, n.CreditsSpent, n.DurationMs}
	if !n.CreatedAt.IsZero() {
		args = append(args, n.CreatedAt)
		createdAt = fmt.Sprintf("$%d", len(args))
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO generations (user_id, model_key, kind, prompt, media_url, thumb_url, status, credits_spent, duration_ms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, %s, %s)
		RETURNING id`, createdAt, createdAt), args...).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert generation: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *GenerationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+generationColumns+`
		FROM generations g JOIN users u ON u.id = g.user_id
		WHERE g.id = $1`, id)

	g, err := scanGeneration(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGenerationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return g, nil
}

// List returns one keyset page in (created_at, id) descending order. It
// fetches limit+1 rows to decide whether a next page exists.
func (r *GenerationRepo) List(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if !filter.IncludeRemoved && filter.Status == "" {
		clauses = append(clauses, "g.status <> 'removed'")
	}
	if filter.Status != "" {
		add("g.status = $%d", filter.Status)
	}
	if filter.UserID != uuid.Nil {
		add("g.user_id = $%d", filter.UserID)
	}
	if filter.ModelKey != "" {
		add("g.model_key = $%d", filter.ModelKey)
	}
	if filter.Kind != "" {
		add("g.kind = $%d", filter.Kind)
	}
	if filter.FeaturedOnly {
		clauses = append(clauses, "g.featured")
	}
	if filter.MinScore != nil {
		add("g.score >= $%d", *filter.MinScore)
	}
	if !filter.Cursor.IsZero() {
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		clauses = append(clauses, fmt.Sprintf("(g.created_at, g.id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	args = append(args, filter.Limit+1)
	query := `SELECT ` + generationColumns + `
		FROM generations g JOIN users u ON u.id = g.user_id` + where +
		fmt.Sprintf(` ORDER BY g.created_at DESC, g.id DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Cursor{}, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Generation, 0, filter.Limit)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, domain.Cursor{}, fmt.Errorf("failed to scan generation row: %w", err)
		}
		items = append(items, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Cursor{}, fmt.Errorf("failed to read generation rows: %w", err)
	}

	var next domain.Cursor
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
		last := items[len(items)-1]
		next = domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return items, next, nil
}

func (r *GenerationRepo) SetScore(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error) {
	var sets []string
	var args []any

	if score != nil {
		args = append(args, *score)
		sets = append(sets, fmt.Sprintf("score = $%d", len(args)))
	}
	if featured != nil {
		args = append(args, *featured)
		sets = append(sets, fmt.Sprintf("featured = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`UPDATE generations SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to score generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrGenerationNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GenerationRepo) SoftDelete(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE generations SET status = 'removed', removed_reason = $1, updated_at = now()
		WHERE id = $2`, reason, id)
	if err != nil {
		return nil, fmt.Errorf("failed to remove generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrGenerationNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GenerationRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM generations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGenerationNotFound
	}
	return nil
}
