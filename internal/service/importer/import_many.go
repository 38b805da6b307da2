package importer

import (
	"context"
	"fmt"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// ImportMany imports a batch of word records in one transaction. The batch
// either commits as a whole or not at all: malformed records are skipped and
// reported, but a storage failure on any record rolls back everything.
//
// Identity resolution runs in two pre-passes so each distinct level and
// chapter is looked up once per batch, not once per record.
func (s *Service) ImportMany(ctx context.Context, recs []Record) (*BulkResult, error) {
	if len(recs) == 0 {
		return nil, domain.NewValidationError("records", "batch is empty")
	}
	if max := s.cfg.MaxBatchSize; max > 0 && len(recs) > max {
		return nil, domain.NewValidationError("records",
			fmt.Sprintf("batch of %d exceeds limit of %d", len(recs), max))
	}

	res := &BulkResult{Total: len(recs)}
	for i := range recs {
		recs[i].normalize()
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		levels, err := s.resolveBatchLevels(txCtx, recs)
		if err != nil {
			return err
		}
		chapters, err := s.resolveBatchChapters(txCtx, recs, levels)
		if err != nil {
			return err
		}

		for i, rec := range recs {
			if rec.Word == "" {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("第%d条记录缺少单词", i+1))
				continue
			}
			if rec.Meaning == "" {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("第%d条记录(%s)缺少释义", i+1, rec.Word))
				continue
			}

			lvl := levels[levelKey(rec)]
			ch := chapters[chapterKey(rec, lvl)]
			if _, _, err := s.upsertWord(txCtx, lvl, ch, rec); err != nil {
				return fmt.Errorf("record %d (%s): %w", i+1, rec.Word, err)
			}
			res.Imported++

			if n := s.cfg.ProgressInterval; n > 0 && (i+1)%n == 0 {
				s.log.InfoContext(txCtx, "bulk import progress",
					"processed", i+1, "total", len(recs))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk import: %w", err)
	}

	s.log.InfoContext(ctx, "bulk import finished",
		"total", res.Total, "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

// levelKey is the slug a record's level resolves under, after defaulting.
func levelKey(rec Record) string {
	if rec.LevelSlug == "" {
		return domain.DefaultLevelSlug
	}
	return rec.LevelSlug
}

// chapterKey is the slug a record's chapter resolves under, after defaulting
// against the record's resolved level.
func chapterKey(rec Record, lvl *domain.Level) string {
	if rec.ChapterSlug == "" {
		return domain.UnclassifiedChapterSlug(lvl.Slug)
	}
	return rec.ChapterSlug
}

// resolveBatchLevels resolves each distinct level slug in the batch exactly
// once. Records with no usable word still contribute their level reference:
// skipping them later does not undo an already-created level.
func (s *Service) resolveBatchLevels(ctx context.Context, recs []Record) (map[string]*domain.Level, error) {
	out := make(map[string]*domain.Level)
	for _, rec := range recs {
		key := levelKey(rec)
		if _, ok := out[key]; ok {
			continue
		}
		lvl, err := s.resolveLevel(ctx, rec.LevelSlug, "")
		if err != nil {
			return nil, err
		}
		out[key] = lvl
	}
	return out, nil
}

func (s *Service) resolveBatchChapters(ctx context.Context, recs []Record, levels map[string]*domain.Level) (map[string]*domain.Chapter, error) {
	out := make(map[string]*domain.Chapter)
	for _, rec := range recs {
		lvl := levels[levelKey(rec)]
		key := chapterKey(rec, lvl)
		if _, ok := out[key]; ok {
			continue
		}
		ch, err := s.resolveChapter(ctx, rec.ChapterSlug, lvl)
		if err != nil {
			return nil, err
		}
		out[key] = ch
	}
	return out, nil
}
