// Command cleanup audits the vocabulary hierarchy for dangling references,
// reclaims empty chapters and levels, and repairs NULL word fields. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/linmiao/cihui-backend/internal/adapter/postgres"
	"github.com/linmiao/cihui-backend/internal/adapter/postgres/level"
	maintrepo "github.com/linmiao/cihui-backend/internal/adapter/postgres/maintenance"
	"github.com/linmiao/cihui-backend/internal/adapter/postgres/word"
	"github.com/linmiao/cihui-backend/internal/app"
	"github.com/linmiao/cihui-backend/internal/config"
	"github.com/linmiao/cihui-backend/internal/service/maintenance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := maintenance.NewService(logger, maintrepo.New(pool), postgres.NewTxManager(pool), cfg.Maintenance)

	audit, reclaim, err := svc.Run(ctx)
	if err != nil {
		logger.Error("maintenance run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary := []slog.Attr{
		slog.Int("orphan_words", len(audit.OrphanWords)),
		slog.Int("orphan_chapters", len(audit.OrphanChapters)),
		slog.Int64("chapters_deleted", reclaim.ChaptersDeleted),
		slog.Int64("levels_deleted", reclaim.LevelsDeleted),
		slog.Int64("words_repaired", reclaim.WordsRepaired),
		slog.Duration("duration", reclaim.Duration),
	}

	// Post-run inventory, so cron logs show the store size over time.
	if levels, err := level.New(pool).List(ctx); err == nil {
		summary = append(summary, slog.Int("levels_remaining", len(levels)))
	}
	if total, err := word.New(pool).Count(ctx); err == nil {
		summary = append(summary, slog.Int64("words_total", total))
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "maintenance run completed", summary...)
}
