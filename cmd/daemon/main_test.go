// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/xgfetch/internal/config"
	xglog "github.com/ManuGH/xgfetch/internal/log"
)

func TestMetricsAddr(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, config.DefaultMetricsListenAddr, metricsAddr(cfg))

	cfg.Metrics.Enabled = false
	assert.Empty(t, metricsAddr(cfg))
}

func TestNewHealthManager_ReportsMissingExtractor(t *testing.T) {
	cfg := config.Defaults()
	cfg.Extractor.Bin = "/nonexistent/yt-dlp"

	ready := newHealthManager(cfg, t.TempDir()).Ready(context.Background())
	assert.False(t, ready.Ready)
	assert.Contains(t, ready.Checks, "extractor")
	assert.Contains(t, ready.Checks, "artifact_dir")
}

func TestBuildApp(t *testing.T) {
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.Extractor.Bin = "yt-dlp"

	app, err := buildApp(context.Background(), cfg, config.ParseServerConfigForApp(cfg), xglog.WithComponent("test"))
	require.NoError(t, err)
	require.NotNil(t, app)
}

func TestHealthcheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/readyz" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.Equal(t, 0, healthcheck(srv.URL, "live", time.Second))
	assert.Equal(t, 1, healthcheck(srv.URL, "ready", time.Second))
	assert.Equal(t, 1, healthcheck("http://127.0.0.1:1", "live", 200*time.Millisecond))
}
