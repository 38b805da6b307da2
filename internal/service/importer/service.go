// Package importer implements the hierarchical find-or-create import engine:
// levels and chapters referenced by an inbound word are resolved or created
// on the fly, and the word itself is inserted or updated, all inside one
// transaction per import call.
package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linmiao/cihui-backend/internal/config"
	"github.com/linmiao/cihui-backend/internal/domain"
)

var (
	errWordRequired    = domain.NewValidationError("word", "is required")
	errMeaningRequired = domain.NewValidationError("meaning", "is required")
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type levelRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Level, error)
	NextPosition(ctx context.Context) (int, error)
	Create(ctx context.Context, lvl *domain.Level) (*domain.Level, error)
}

type chapterRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Chapter, error)
	NextPosition(ctx context.Context, levelID uuid.UUID) (int, error)
	Create(ctx context.Context, ch *domain.Chapter) (*domain.Chapter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type wordRepo interface {
	GetByText(ctx context.Context, text string) (*domain.Word, error)
	Create(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Update(ctx context.Context, id uuid.UUID, meaning string, phonetic, example *string, levelID, chapterID uuid.UUID) error
	DeleteByChapter(ctx context.Context, chapterID uuid.UUID) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the import business logic. It holds no state across
// calls: every import resolves level and chapter identities fresh, so a
// record deleted between two requests is never referenced through a stale
// cache.
type Service struct {
	log      *slog.Logger
	levels   levelRepo
	chapters chapterRepo
	words    wordRepo
	tx       txManager
	cfg      config.ImportConfig
}

// NewService creates a new import service.
func NewService(
	logger *slog.Logger,
	levels levelRepo,
	chapters chapterRepo,
	words wordRepo,
	tx txManager,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "importer"),
		levels:   levels,
		chapters: chapters,
		words:    words,
		tx:       tx,
		cfg:      cfg,
	}
}
