package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// Audit scans for referential damage and reports it without changing
// anything. Both scans run in one transaction so the report is a consistent
// snapshot.
func (s *Service) Audit(ctx context.Context) (*domain.AuditReport, error) {
	report := &domain.AuditReport{CheckedAt: time.Now().UTC()}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		words, err := s.repo.FindOrphanWords(txCtx)
		if err != nil {
			return fmt.Errorf("find orphan words: %w", err)
		}
		chapters, err := s.repo.FindOrphanChapters(txCtx)
		if err != nil {
			return fmt.Errorf("find orphan chapters: %w", err)
		}
		report.OrphanWords = words
		report.OrphanChapters = chapters
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	if report.Clean() {
		s.log.InfoContext(ctx, "audit clean")
	} else {
		s.log.WarnContext(ctx, "audit found orphans",
			"orphan_words", len(report.OrphanWords),
			"orphan_chapters", len(report.OrphanChapters))
		for _, w := range report.OrphanWords {
			s.log.WarnContext(ctx, "orphan word",
				"word_id", w.WordID, "word", w.WordText,
				"missing_level", w.MissingLevel, "missing_chapter", w.MissingChapter)
		}
		for _, c := range report.OrphanChapters {
			s.log.WarnContext(ctx, "orphan chapter",
				"chapter_id", c.ChapterID, "slug", c.ChapterSlug, "level_id", c.LevelID)
		}
	}
	return report, nil
}
