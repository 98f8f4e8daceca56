// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package acquisition

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
)

// SweeperConfig defines the orphan retention policy.
type SweeperConfig struct {
	Dir       string
	Interval  time.Duration
	Retention time.Duration // artifacts older than this are orphans
}

// Sweeper removes artifacts a crashed process left behind. Live artifacts
// never reach Retention age: a fetch is bounded by its timeout and a
// transfer releases on return.
type Sweeper struct {
	Conf SweeperConfig
	Now  func() time.Time // optional; defaults to time.Now
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Conf.Interval <= 0 || s.Conf.Retention <= 0 {
		return
	}

	logger := xglog.WithComponent("sweeper")
	logger.Info().
		Dur("interval", s.Conf.Interval).
		Dur("retention", s.Conf.Retention).
		Str(xglog.FieldPath, s.Conf.Dir).
		Msg("artifact sweeper started")

	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.Conf.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs exactly one pass and returns how many artifacts it removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	logger := xglog.WithComponent("sweeper")

	entries, err := os.ReadDir(s.Conf.Dir)
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldPath, s.Conf.Dir).Msg("artifact sweep failed to list directory")
		return 0
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().Add(-s.Conf.Retention)

	removed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if e.IsDir() || !strings.HasPrefix(e.Name(), ArtifactPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.Conf.Dir, e.Name())
		if err := os.Remove(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn().Err(err).Str(xglog.FieldPath, path).Msg("failed to remove orphaned artifact")
			}
			continue
		}
		removed++
		metrics.IncSweeperRemoved()
		logger.Info().
			Str(xglog.FieldEvent, "sweeper.removed").
			Str(xglog.FieldPath, path).
			Time("mtime", info.ModTime()).
			Msg("removed orphaned artifact")
	}
	return removed
}
