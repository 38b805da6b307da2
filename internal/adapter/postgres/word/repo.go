// Package word implements the Word repository using PostgreSQL.
//
// Lookup for deduplication is by word text alone, not by chapter: the source
// system treats equal text anywhere in the store as the same word, and an
// update can therefore move a word between chapters.
package word

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/linmiao/cihui-backend/internal/adapter/postgres"
	"github.com/linmiao/cihui-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// builder is the squirrel statement builder with PostgreSQL placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const wordColumns = `id, word, meaning, phonetic, phrase, example, morphology, note, level_id, chapter_id, image_path, created_at, updated_at`

const getByTextSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE word = $1
ORDER BY created_at
LIMIT 1`

const listByChapterSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE chapter_id = $1
ORDER BY created_at`

const insertSQL = `
INSERT INTO words (id, word, meaning, phonetic, phrase, example, morphology, note, level_id, chapter_id, image_path, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`

const deleteByChapterSQL = `DELETE FROM words WHERE chapter_id = $1`

const countSQL = `SELECT count(*) FROM words`

// GetByText returns the word matching the given text, oldest row first when
// historical duplicates exist. Returns domain.ErrNotFound if there is none.
func (r *Repo) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	w, err := scanWord(q.QueryRow(ctx, getByTextSQL, text))
	if err != nil {
		return nil, postgres.MapError(err, "word", text)
	}
	return w, nil
}

// ListByChapter returns all words of a chapter in creation order.
func (r *Repo) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByChapterSQL, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("list words: %w", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}

	return words, nil
}

// Create inserts a new word row. Optional fields that are nil are stored as
// SQL NULL. Runs inside the caller's transaction when one is open.
func (r *Repo) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := q.Exec(ctx, insertSQL,
		w.ID, w.Text, w.Meaning,
		ptrToText(w.Phonetic), ptrToText(w.Phrase), ptrToText(w.Example),
		ptrToText(w.Morphology), ptrToText(w.Note),
		w.LevelID, w.ChapterID, ptrToText(w.ImagePath), now)
	if err != nil {
		return nil, postgres.MapError(err, "word", w.Text)
	}

	return w, nil
}

// Update overwrites an existing word row in place: meaning, phonetic, and
// example are replaced, the level/chapter references are repointed, and
// updated_at is touched. Unsupplied optional fields are cleared to empty
// string, not left unchanged and not set to NULL. Inserts and updates treat
// missing optionals differently on purpose; see the repair pass.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, meaning string, phonetic, example *string, levelID, chapterID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := builder.Update("words").
		Set("meaning", meaning).
		Set("phonetic", orEmpty(phonetic)).
		Set("example", orEmpty(example)).
		Set("level_id", levelID).
		Set("chapter_id", chapterID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build word update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "word", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteByChapter removes every word belonging to a chapter and returns the
// number of deleted rows. Used by the admin chapter delete cascade.
func (r *Repo) DeleteByChapter(ctx context.Context, chapterID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteByChapterSQL, chapterID)
	if err != nil {
		return 0, postgres.MapError(err, "word", chapterID.String())
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of word rows.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int64
	if err := q.QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanWord tolerates NULL in word, meaning, and the reference columns: such
// rows are exactly what the maintenance subsystem exists to find.
func scanWord(row pgx.Row) (*domain.Word, error) {
	var (
		w                  domain.Word
		text, meaning      pgtype.Text
		phonetic, phrase   pgtype.Text
		example, morph     pgtype.Text
		note, imagePath    pgtype.Text
		levelID, chapterID pgtype.UUID
	)
	if err := row.Scan(&w.ID, &text, &meaning, &phonetic, &phrase, &example,
		&morph, &note, &levelID, &chapterID, &imagePath,
		&w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}

	w.Text = text.String
	w.Meaning = meaning.String
	w.Phonetic = textToPtr(phonetic)
	w.Phrase = textToPtr(phrase)
	w.Example = textToPtr(example)
	w.Morphology = textToPtr(morph)
	w.Note = textToPtr(note)
	w.ImagePath = textToPtr(imagePath)
	if levelID.Valid {
		w.LevelID = levelID.Bytes
	}
	if chapterID.Valid {
		w.ChapterID = chapterID.Bytes
	}
	return &w, nil
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
