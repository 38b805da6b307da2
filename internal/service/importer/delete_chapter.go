package importer

import (
	"context"
	"fmt"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// DeleteChapter removes a chapter and every word in it. The two deletes run
// in one transaction; without database-level foreign keys this is the only
// thing standing between an admin delete and a pile of orphaned words.
func (s *Service) DeleteChapter(ctx context.Context, slug string) (int64, error) {
	slug = domain.NormalizeText(slug)
	if slug == "" {
		return 0, domain.NewValidationError("slug", "is required")
	}

	var removed int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ch, err := s.chapters.GetBySlug(txCtx, slug)
		if err != nil {
			return fmt.Errorf("lookup chapter %q: %w", slug, err)
		}
		n, err := s.words.DeleteByChapter(txCtx, ch.ID)
		if err != nil {
			return fmt.Errorf("delete words of chapter %q: %w", slug, err)
		}
		if err := s.chapters.Delete(txCtx, ch.ID); err != nil {
			return fmt.Errorf("delete chapter %q: %w", slug, err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "chapter deleted", "slug", slug, "words_removed", removed)
	return removed, nil
}
