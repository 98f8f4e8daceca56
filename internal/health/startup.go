// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/ManuGH/xgfetch/internal/log"
)

// PerformStartupChecks validates the environment before the server starts.
// An unwritable artifact directory is fatal; a missing extractor is only
// logged, readiness reports it until the binary appears.
func PerformStartupChecks(_ context.Context, extractorBin, artifactDir string) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	if err := checkWritableDir(artifactDir); err != nil {
		return fmt.Errorf("artifact directory check failed: %w", err)
	}

	if path, err := exec.LookPath(extractorBin); err != nil {
		logger.Warn().Err(err).Str("bin", extractorBin).Msg("extractor not found; downloads will fail until it is installed")
	} else {
		logger.Info().Str("bin", path).Msg("extractor resolved")
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}
