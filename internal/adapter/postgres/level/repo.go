// Package level implements the Level repository using PostgreSQL.
// Levels are looked up by their caller-visible slug and created implicitly
// by the import path, so every write here expects to run inside the
// caller's transaction.
package level

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/linmiao/cihui-backend/internal/adapter/postgres"
	"github.com/linmiao/cihui-backend/internal/domain"
)

// Repo provides level persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new level repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const levelColumns = `id, slug, name, description, position, created_at, updated_at`

const getBySlugSQL = `
SELECT ` + levelColumns + `
FROM levels
WHERE slug = $1`

const getByIDSQL = `
SELECT ` + levelColumns + `
FROM levels
WHERE id = $1`

const listSQL = `
SELECT ` + levelColumns + `
FROM levels
ORDER BY position, slug`

const insertSQL = `
INSERT INTO levels (id, slug, name, description, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

// Advisory lock key serializing level position assignment. Levels have no
// parent row to lock, so concurrent creators take this xact-scoped lock
// instead before reading max(position).
const positionLockKey = 0x6c65766c // "levl"

const nextPositionSQL = `SELECT COALESCE(MAX(position), 0) + 1 FROM levels`

// GetBySlug returns the level with the given natural-key slug.
// Returns domain.ErrNotFound if no such level exists.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Level, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	lvl, err := scanLevel(q.QueryRow(ctx, getBySlugSQL, slug))
	if err != nil {
		return nil, postgres.MapError(err, "level", slug)
	}
	return lvl, nil
}

// GetByID returns the level with the given surrogate id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Level, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	lvl, err := scanLevel(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "level", id.String())
	}
	return lvl, nil
}

// List returns all levels ordered by position. Empty slice when none exist.
func (r *Repo) List(ctx context.Context) ([]domain.Level, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	levels := []domain.Level{}
	for rows.Next() {
		lvl, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("list levels: %w", err)
		}
		levels = append(levels, *lvl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}

	return levels, nil
}

// NextPosition returns max(position)+1 across all levels, serialized by a
// transaction-scoped advisory lock. Must be called inside a transaction:
// outside one the lock would be held until the session ends.
func (r *Repo) NextPosition(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(positionLockKey)); err != nil {
		return 0, postgres.MapError(err, "level", "position-lock")
	}

	var next int
	if err := q.QueryRow(ctx, nextPositionSQL).Scan(&next); err != nil {
		return 0, postgres.MapError(err, "level", "next-position")
	}
	return next, nil
}

// Create inserts a new level and returns it. The insert joins whatever
// transaction the caller has open; it is never committed independently.
func (r *Repo) Create(ctx context.Context, lvl *domain.Level) (*domain.Level, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	lvl.CreatedAt = now
	lvl.UpdatedAt = now

	_, err := q.Exec(ctx, insertSQL,
		lvl.ID, lvl.Slug, lvl.Name, ptrToText(lvl.Description), lvl.Position, now)
	if err != nil {
		return nil, postgres.MapError(err, "level", lvl.Slug)
	}

	return lvl, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanLevel(row pgx.Row) (*domain.Level, error) {
	var (
		lvl         domain.Level
		description pgtype.Text
	)
	if err := row.Scan(&lvl.ID, &lvl.Slug, &lvl.Name, &description,
		&lvl.Position, &lvl.CreatedAt, &lvl.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		lvl.Description = &description.String
	}
	return &lvl, nil
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
