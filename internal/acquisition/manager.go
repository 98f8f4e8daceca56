// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package acquisition

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/xgfetch/internal/domain/media"
	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
)

// ArtifactPrefix starts the name of every transient artifact.
const ArtifactPrefix = "ytdl_"

// mergeContainer is the container video fetches are merged into.
const mergeContainer = "mp4"

// Manager materializes validated selections into transient artifacts.
type Manager struct {
	invoker media.Invoker
	dir     string
}

// NewManager returns a Manager writing artifacts under dir
// (os.TempDir() when empty).
func NewManager(invoker media.Invoker, dir string) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{invoker: invoker, dir: dir}
}

// Dir is the directory artifacts are written to.
func (m *Manager) Dir() string { return m.dir }

// Acquire fetches sel into a fresh artifact and hands ownership of it to the
// caller. On failure no artifact survives.
func (m *Manager) Acquire(ctx context.Context, url string, format media.Format, sel Selection) (*Handle, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("acquire: unknown format %q", format)
	}
	if sel.VariantID == "" {
		return nil, errors.New("acquire: selection has no variant")
	}

	id, err := newArtifactID()
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	path := filepath.Join(m.dir, ArtifactPrefix+id+"."+format.Ext())

	ctx = xglog.ContextWithArtifactID(ctx, id)
	logger := xglog.WithComponentFromContext(ctx, "acquisition")

	req := media.FetchRequest{FormatSpec: sel.VariantID, Destination: path}
	if format == media.FormatVideo {
		// Pair the chosen video with the best audio; fall back to the variant alone, then to best.
		req.FormatSpec = fmt.Sprintf("%s+bestaudio/%s/best", sel.VariantID, sel.VariantID)
		req.MergeContainer = mergeContainer
	}

	logger.Info().
		Str(xglog.FieldEvent, "acquire.start").
		Str(xglog.FieldFormat, string(format)).
		Str(xglog.FieldQuality, sel.Quality).
		Str(xglog.FieldVariantID, sel.VariantID).
		Str(xglog.FieldPath, path).
		Msg("fetching artifact")

	start := time.Now()
	if err := m.invoker.Fetch(ctx, url, req); err != nil {
		removeLeftover(path, logger)
		return nil, fmt.Errorf("acquire %s: %w", format, err)
	}

	metrics.ArtifactAcquired()
	logger.Info().
		Str(xglog.FieldEvent, "acquire.done").
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("artifact ready")

	return &Handle{id: id, path: path, logger: logger}, nil
}

func newArtifactID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate artifact id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// removeLeftover deletes whatever a failed fetch left at path.
func removeLeftover(path string, logger zerolog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "acquire.cleanup_failed").
			Str(xglog.FieldPath, path).
			Msg("failed to remove partial artifact")
	}
}
