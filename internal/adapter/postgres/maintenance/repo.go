// Package maintenance implements the referential-integrity queries used by
// the consistency auditor and the orphan reclaimer. The schema carries no
// foreign keys on purpose, so these scans are the only thing standing between
// manual edits and silent drift.
package maintenance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/linmiao/cihui-backend/internal/adapter/postgres"
	"github.com/linmiao/cihui-backend/internal/domain"
)

// Repo provides consistency scans and destructive cleanup statements.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new maintenance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const orphanWordsSQL = `
SELECT w.id, w.word, w.level_id, w.chapter_id,
       (l.id IS NULL) AS missing_level,
       (c.id IS NULL) AS missing_chapter
FROM words w
LEFT JOIN levels l ON w.level_id = l.id
LEFT JOIN chapters c ON w.chapter_id = c.id
WHERE l.id IS NULL OR c.id IS NULL
ORDER BY w.created_at`

const orphanChaptersSQL = `
SELECT c.id, c.slug, c.level_id
FROM chapters c
LEFT JOIN levels l ON c.level_id = l.id
WHERE l.id IS NULL
ORDER BY c.created_at`

const deleteWordlessChaptersSQL = `
DELETE FROM chapters c
WHERE NOT EXISTS (SELECT 1 FROM words w WHERE w.chapter_id = c.id)`

const deleteWordlessLevelsSQL = `
DELETE FROM levels l
WHERE NOT EXISTS (SELECT 1 FROM words w WHERE w.level_id = l.id)`

const repairNullWordSQL = `
UPDATE words
SET word = $1, updated_at = now()
WHERE word IS NULL OR word = ''`

const repairNullMeaningSQL = `
UPDATE words
SET meaning = $1, updated_at = now()
WHERE meaning IS NULL OR meaning = ''`

// FindOrphanWords returns every word whose level or chapter reference does
// not resolve. Read-only.
func (r *Repo) FindOrphanWords(ctx context.Context) ([]domain.OrphanWordRef, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, orphanWordsSQL)
	if err != nil {
		return nil, fmt.Errorf("scan orphan words: %w", err)
	}
	defer rows.Close()

	refs := []domain.OrphanWordRef{}
	for rows.Next() {
		var (
			ref                domain.OrphanWordRef
			text               pgtype.Text
			levelID, chapterID pgtype.UUID
		)
		if err := rows.Scan(&ref.WordID, &text, &levelID, &chapterID,
			&ref.MissingLevel, &ref.MissingChapter); err != nil {
			return nil, fmt.Errorf("scan orphan words: %w", err)
		}
		ref.WordText = text.String
		if levelID.Valid {
			ref.LevelID = levelID.Bytes
		}
		if chapterID.Valid {
			ref.ChapterID = chapterID.Bytes
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan orphan words: %w", err)
	}

	return refs, nil
}

// FindOrphanChapters returns every chapter whose owning level is missing.
// Read-only.
func (r *Repo) FindOrphanChapters(ctx context.Context) ([]domain.OrphanChapterRef, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, orphanChaptersSQL)
	if err != nil {
		return nil, fmt.Errorf("scan orphan chapters: %w", err)
	}
	defer rows.Close()

	refs := []domain.OrphanChapterRef{}
	for rows.Next() {
		var ref domain.OrphanChapterRef
		if err := rows.Scan(&ref.ChapterID, &ref.ChapterSlug, &ref.LevelID); err != nil {
			return nil, fmt.Errorf("scan orphan chapters: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan orphan chapters: %w", err)
	}

	return refs, nil
}

// DeleteWordlessChapters removes every chapter with zero referencing words
// and returns the number of rows deleted. Runs inside the caller's tx.
func (r *Repo) DeleteWordlessChapters(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteWordlessChaptersSQL)
	if err != nil {
		return 0, postgres.MapError(err, "chapter", "wordless")
	}
	return tag.RowsAffected(), nil
}

// DeleteWordlessLevels removes every level with zero referencing words
// and returns the number of rows deleted. Runs inside the caller's tx.
func (r *Repo) DeleteWordlessLevels(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteWordlessLevelsSQL)
	if err != nil {
		return 0, postgres.MapError(err, "level", "wordless")
	}
	return tag.RowsAffected(), nil
}

// RepairNullFields rewrites NULL/empty word text and meaning to their
// placeholder literals and returns the total number of rows touched.
func (r *Repo) RepairNullFields(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var repaired int64

	tag, err := q.Exec(ctx, repairNullWordSQL, domain.PlaceholderWordText)
	if err != nil {
		return 0, postgres.MapError(err, "word", "repair-text")
	}
	repaired += tag.RowsAffected()

	tag, err = q.Exec(ctx, repairNullMeaningSQL, domain.PlaceholderMeaning)
	if err != nil {
		return repaired, postgres.MapError(err, "word", "repair-meaning")
	}
	repaired += tag.RowsAffected()

	return repaired, nil
}
