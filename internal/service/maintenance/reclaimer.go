package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/linmiao/cihui-backend/internal/domain"
)

// Reclaim deletes containers that no longer hold anything: chapters without
// words first, then levels without chapters. Deliberately conservative: a
// container is removed only when it is empty, never because its parent is
// missing. Both deletes run in one transaction; the optional null-field
// repair runs in its own, so a repair failure cannot undo a completed
// reclaim.
func (s *Service) Reclaim(ctx context.Context) (*domain.ReclaimReport, error) {
	start := time.Now()
	report := &domain.ReclaimReport{}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		chapters, err := s.repo.DeleteWordlessChapters(txCtx)
		if err != nil {
			return fmt.Errorf("delete wordless chapters: %w", err)
		}
		levels, err := s.repo.DeleteWordlessLevels(txCtx)
		if err != nil {
			return fmt.Errorf("delete wordless levels: %w", err)
		}
		report.ChaptersDeleted = chapters
		report.LevelsDeleted = levels
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reclaim: %w", err)
	}

	if s.cfg.RepairNullFields {
		repaired, err := s.RepairNullFields(ctx)
		if err != nil {
			return nil, err
		}
		report.WordsRepaired = repaired
	}

	report.Duration = time.Since(start)
	s.log.InfoContext(ctx, "reclaim finished",
		"chapters_deleted", report.ChaptersDeleted,
		"levels_deleted", report.LevelsDeleted,
		"words_repaired", report.WordsRepaired,
		"duration", report.Duration)
	return report, nil
}

// RepairNullFields overwrites NULL word texts and meanings with visible
// placeholders so broken rows surface in the product instead of vanishing
// from queries.
func (s *Service) RepairNullFields(ctx context.Context) (int64, error) {
	var repaired int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.repo.RepairNullFields(txCtx)
		if err != nil {
			return err
		}
		repaired = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("repair null fields: %w", err)
	}
	if repaired > 0 {
		s.log.InfoContext(ctx, "null fields repaired", "words", repaired)
	}
	return repaired, nil
}

// Run performs a full maintenance pass: audit, then reclaim. Only one run
// may be active at a time.
func (s *Service) Run(ctx context.Context) (*domain.AuditReport, *domain.ReclaimReport, error) {
	if !s.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseAuditing)) {
		return nil, nil, ErrAlreadyRunning
	}
	defer s.setPhase(PhaseIdle)

	audit, err := s.Audit(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.setPhase(PhaseReclaiming)
	reclaim, err := s.Reclaim(ctx)
	if err != nil {
		return audit, nil, err
	}
	return audit, reclaim, nil
}
