// Package chapter implements the Chapter repository using PostgreSQL.
package chapter

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

// Repo provides chapter persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chapter repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const chapterColumns = `id, slug, name, description, position, level_id, created_at, updated_at`

const getBySlugSQL = `
SELECT ` + chapterColumns + `
FROM chapters
WHERE slug = $1`

const getByIDSQL = `
SELECT ` + chapterColumns + `
FROM chapters
WHERE id = $1`

const listByLevelSQL = `
SELECT ` + chapterColumns + `
FROM chapters
WHERE level_id = $1
ORDER BY position, slug`

const insertSQL = `
INSERT INTO chapters (id, slug, name, description, position, level_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

// nextPositionSQL computes max+1 within one level. The caller is expected to
// hold the parent level row lock (see NextPosition) so two transactions
// cannot read the same max.
const nextPositionSQL = `
SELECT COALESCE(MAX(position), 0) + 1
FROM chapters
WHERE level_id = $1`

const lockLevelSQL = `SELECT id FROM levels WHERE id = $1 FOR UPDATE`

const deleteSQL = `DELETE FROM chapters WHERE id = $1`

// GetBySlug returns the chapter with the given natural-key slug.
// Returns domain.ErrNotFound if no such chapter exists.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ch, err := scanChapter(q.QueryRow(ctx, getBySlugSQL, slug))
	if err != nil {
		return nil, postgres.MapError(err, "chapter", slug)
	}
	return ch, nil
}

// GetByID returns the chapter with the given surrogate id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ch, err := scanChapter(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "chapter", id.String())
	}
	return ch, nil
}

// ListByLevel returns all chapters of a level ordered by position.
func (r *Repo) ListByLevel(ctx context.Context, levelID uuid.UUID) ([]domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByLevelSQL, levelID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	chapters := []domain.Chapter{}
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("list chapters: %w", err)
		}
		chapters = append(chapters, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	return chapters, nil
}

// NextPosition returns max(position)+1 among the chapters of a level.
// It first locks the parent level row FOR UPDATE so a concurrent import into
// the same level blocks until this transaction finishes, closing the
// read-max-then-insert gap. Must be called inside a transaction.
func (r *Repo) NextPosition(ctx context.Context, levelID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var locked uuid.UUID
	if err := q.QueryRow(ctx, lockLevelSQL, levelID).Scan(&locked); err != nil {
		return 0, postgres.MapError(err, "level", levelID.String())
	}

	var next int
	if err := q.QueryRow(ctx, nextPositionSQL, levelID).Scan(&next); err != nil {
		return 0, postgres.MapError(err, "chapter", "next-position")
	}
	return next, nil
}

// Create inserts a new chapter and returns it. The insert joins whatever
// transaction the caller has open; it is never committed independently.
func (r *Repo) Create(ctx context.Context, ch *domain.Chapter) (*domain.Chapter, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	_, err := q.Exec(ctx, insertSQL,
		ch.ID, ch.Slug, ch.Name, ptrToText(ch.Description), ch.Position, ch.LevelID, now)
	if err != nil {
		return nil, postgres.MapError(err, "chapter", ch.Slug)
	}

	return ch, nil
}

// Delete removes a chapter by id. The caller is responsible for cascading
// its words first (words carry no FK to chapters).
// Returns domain.ErrNotFound when no row was deleted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "chapter", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanChapter(row pgx.Row) (*domain.Chapter, error) {
	var (
		ch          domain.Chapter
		description pgtype.Text
	)
	if err := row.Scan(&ch.ID, &ch.Slug, &ch.Name, &description,
		&ch.Position, &ch.LevelID, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		ch.Description = &description.String
	}
	return &ch, nil
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
