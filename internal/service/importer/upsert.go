package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// upsertWord inserts rec as a new word or, when a word with the same text
// already exists anywhere in the store, updates that row in place and moves
// it under the given level and chapter. Identity is the word text alone:
// "apple" imported into two different chapters is one row, relocated by the
// second import. Returns the word id and whether an existing row was updated.
func (s *Service) upsertWord(ctx context.Context, lvl *domain.Level, ch *domain.Chapter, rec Record) (uuid.UUID, bool, error) {
	existing, err := s.words.GetByText(ctx, rec.Word)
	if err == nil {
		if err := s.words.Update(ctx, existing.ID, rec.Meaning, rec.Phonetic, rec.Example, lvl.ID, ch.ID); err != nil {
			return uuid.Nil, false, fmt.Errorf("update word %q: %w", rec.Word, err)
		}
		return existing.ID, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, false, fmt.Errorf("lookup word %q: %w", rec.Word, err)
	}

	created, err := s.words.Create(ctx, &domain.Word{
		ID:         uuid.New(),
		Text:       rec.Word,
		Meaning:    rec.Meaning,
		Phonetic:   rec.Phonetic,
		Phrase:     rec.Phrase,
		Example:    rec.Example,
		Morphology: rec.Morphology,
		Note:       rec.Note,
		ImagePath:  rec.ImagePath,
		LevelID:    lvl.ID,
		ChapterID:  ch.ID,
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("create word %q: %w", rec.Word, err)
	}
	return created.ID, false, nil
}
