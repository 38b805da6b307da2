package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// resolveLevel returns the level identified by slug, creating it when it does
// not exist yet. An empty slug falls back to the default level rather than
// failing: de-identified batches are common and the caller has no better
// answer to give. nameHint, when non-empty, becomes the display name of a
// newly created level. Must run inside a transaction so that position
// assignment is serialized.
func (s *Service) resolveLevel(ctx context.Context, slug, nameHint string) (*domain.Level, error) {
	if slug == "" {
		slug = domain.DefaultLevelSlug
	}

	lvl, err := s.levels.GetBySlug(ctx, slug)
	if err == nil {
		return lvl, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve level %q: %w", slug, err)
	}

	pos, err := s.levels.NextPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("next level position: %w", err)
	}

	name := nameHint
	if name == "" {
		name = slug
	}
	desc := fmt.Sprintf("自动创建的等级: %s", slug)

	created, err := s.levels.Create(ctx, &domain.Level{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        name,
		Description: &desc,
		Position:    pos,
	})
	if err != nil {
		return nil, fmt.Errorf("create level %q: %w", slug, err)
	}

	s.log.InfoContext(ctx, "level auto-created", "slug", slug, "position", pos)
	return created, nil
}

// resolveChapter returns the chapter identified by slug, creating it under
// owner when it does not exist. Lookup is by slug alone: a chapter that
// already exists under a different level is returned as-is, the word simply
// lands there. An empty slug maps to the owner level's unclassified chapter.
// Must run inside a transaction.
func (s *Service) resolveChapter(ctx context.Context, slug string, owner *domain.Level) (*domain.Chapter, error) {
	if slug == "" {
		slug = domain.UnclassifiedChapterSlug(owner.Slug)
	}

	ch, err := s.chapters.GetBySlug(ctx, slug)
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve chapter %q: %w", slug, err)
	}

	pos, err := s.chapters.NextPosition(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("next chapter position: %w", err)
	}

	desc := fmt.Sprintf("自动创建的章节: %s", slug)
	created, err := s.chapters.Create(ctx, &domain.Chapter{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        slug,
		Description: &desc,
		LevelID:     owner.ID,
		Position:    pos,
	})
	if err != nil {
		return nil, fmt.Errorf("create chapter %q: %w", slug, err)
	}

	s.log.InfoContext(ctx, "chapter auto-created",
		"slug", slug, "level", owner.Slug, "position", pos)
	return created, nil
}
