package importer

import (
	"context"
	"fmt"
)

// ImportOne imports a single word record: level and chapter are resolved or
// created, then the word is inserted or updated, all in one transaction.
func (s *Service) ImportOne(ctx context.Context, rec Record) (*ImportOneResult, error) {
	if ok := rec.normalize(); !ok {
		if rec.Word == "" {
			return nil, errWordRequired
		}
		return nil, errMeaningRequired
	}

	if rec.ChapterSlug != "" && rec.LevelSlug == "" {
		// The chapter reference is ambiguous without its level; fall back to
		// the default level instead of rejecting the record.
		s.log.WarnContext(ctx, "chapter given without level, defaulting",
			"word", rec.Word, "chapter", rec.ChapterSlug)
	}

	var res ImportOneResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		lvl, err := s.resolveLevel(txCtx, rec.LevelSlug, "")
		if err != nil {
			return err
		}
		ch, err := s.resolveChapter(txCtx, rec.ChapterSlug, lvl)
		if err != nil {
			return err
		}
		id, updated, err := s.upsertWord(txCtx, lvl, ch, rec)
		if err != nil {
			return err
		}
		res = ImportOneResult{
			WordID:      id,
			Updated:     updated,
			LevelID:     lvl.ID,
			LevelSlug:   lvl.Slug,
			ChapterID:   ch.ID,
			ChapterSlug: ch.Slug,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import word %q: %w", rec.Word, err)
	}

	s.log.InfoContext(ctx, "word imported",
		"word", rec.Word, "word_id", res.WordID, "updated", res.Updated,
		"level", res.LevelSlug, "chapter", res.ChapterSlug)
	return &res, nil
}
