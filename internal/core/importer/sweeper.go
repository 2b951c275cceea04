// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically deletes temporary imports that were never committed.
type Sweeper struct {
	engine        *Engine
	interval      time.Duration
	maxAgeMinutes int
	logger        *slog.Logger
}

func NewSweeper(engine *Engine, interval time.Duration, maxAgeMinutes int, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		engine:        engine,
		interval:      interval,
		maxAgeMinutes: maxAgeMinutes,
		logger:        logger,
	}
}

// Run ticks until ctx is cancelled.
func (sweeper *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	sweeper.logger.Info("import_sweeper_started",
		slog.Duration("interval", sweeper.interval),
		slog.Int("max_age_minutes", sweeper.maxAgeMinutes),
	)

	for {
		select {
		case <-ctx.Done():
			sweeper.logger.Info("import_sweeper_stopped")
			return
		case <-ticker.C:
			if _, err := sweeper.Tick(ctx); err != nil {
				sweeper.logger.Error("import_sweep_failed", slog.Any("error", err))
			}
		}
	}
}

// Tick runs a single sweep and returns the number of books deleted.
func (sweeper *Sweeper) Tick(ctx context.Context) (int64, error) {
	return sweeper.engine.CleanupTemporaryImports(ctx, sweeper.maxAgeMinutes)
}
