// Package maintenance implements the consistency auditor and the orphan
// reclaimer. The schema carries no foreign keys, so referential damage is
// possible and expected; this package finds it, reports it, and cleans up
// what can be cleaned safely.
package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/linmiao/cihui-backend/internal/config"
	"github.com/linmiao/cihui-backend/internal/domain"
)

// ErrAlreadyRunning is returned when a maintenance run is requested while a
// previous one has not finished.
var ErrAlreadyRunning = errors.New("maintenance run already in progress")

// Phase is the observable state of the maintenance service.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseAuditing
	PhaseReclaiming
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAuditing:
		return "auditing"
	case PhaseReclaiming:
		return "reclaiming"
	default:
		return "unknown"
	}
}

type maintenanceRepo interface {
	FindOrphanWords(ctx context.Context) ([]domain.OrphanWordRef, error)
	FindOrphanChapters(ctx context.Context) ([]domain.OrphanChapterRef, error)
	DeleteWordlessChapters(ctx context.Context) (int64, error)
	DeleteWordlessLevels(ctx context.Context) (int64, error)
	RepairNullFields(ctx context.Context) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs audits and reclaims. At most one full run is active at a
// time; the current phase is exported so operators can see what a long run
// is doing.
type Service struct {
	log   *slog.Logger
	repo  maintenanceRepo
	tx    txManager
	cfg   config.MaintenanceConfig
	phase atomic.Int32
}

func NewService(logger *slog.Logger, repo maintenanceRepo, tx txManager, cfg config.MaintenanceConfig) *Service {
	return &Service{
		log:  logger.With("service", "maintenance"),
		repo: repo,
		tx:   tx,
		cfg:  cfg,
	}
}

// Phase reports what the service is currently doing.
func (s *Service) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Service) setPhase(p Phase) {
	s.phase.Store(int32(p))
}
