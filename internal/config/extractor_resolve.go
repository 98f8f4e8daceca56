// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultExtractorBin = "yt-dlp"
	venvExtractorBin    = ".venv/bin/yt-dlp"
)

// ResolveExtractorBin returns the effective yt-dlp executable.
//
// Resolution order:
// 1) Explicit configured value (e.g. XGFETCH_YTDLP_BIN)
// 2) A project-local virtualenv at ./.venv/bin/yt-dlp, if it exists
// 3) "yt-dlp" resolved from PATH at exec time
func ResolveExtractorBin(configured string) string {
	return resolveExtractorBinWithStat(configured, os.Stat)
}

func resolveExtractorBinWithStat(configured string, stat func(string) (os.FileInfo, error)) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if fi, err := stat(venvExtractorBin); err == nil && fi != nil && !fi.IsDir() {
		if abs, err := filepath.Abs(venvExtractorBin); err == nil {
			return abs
		}
		return venvExtractorBin
	}
	return defaultExtractorBin
}
