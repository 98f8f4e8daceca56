// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package acquisition

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
)

// Handle owns one transient artifact. Whoever holds it must call Release
// exactly once; further calls are no-ops.
type Handle struct {
	id     string
	path   string
	logger zerolog.Logger

	once sync.Once
}

// ID is the random token embedded in the artifact name.
func (h *Handle) ID() string { return h.id }

// Path is the absolute artifact path.
func (h *Handle) Path() string { return h.path }

// Release removes the artifact. A missing file counts as released; any other
// failure is logged. It never panics and never returns an error.
func (h *Handle) Release() {
	h.once.Do(func() {
		err := os.Remove(h.path)
		switch {
		case err == nil:
			metrics.ArtifactReleased("removed")
		case errors.Is(err, fs.ErrNotExist):
			metrics.ArtifactReleased("missing")
		default:
			metrics.ArtifactReleased("error")
			h.logger.Error().Err(err).
				Str(xglog.FieldEvent, "artifact.release_failed").
				Str(xglog.FieldPath, h.path).
				Msg("failed to remove transient artifact")
			return
		}
		h.logger.Debug().
			Str(xglog.FieldEvent, "artifact.released").
			Str(xglog.FieldPath, h.path).
			Msg("transient artifact released")
	})
}
