// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/xgfetch/internal/acquisition"
	"github.com/ManuGH/xgfetch/internal/api"
	"github.com/ManuGH/xgfetch/internal/config"
	"github.com/ManuGH/xgfetch/internal/daemon"
	"github.com/ManuGH/xgfetch/internal/health"
	"github.com/ManuGH/xgfetch/internal/infra/ytdlp"
	"github.com/ManuGH/xgfetch/internal/telemetry"
)

// newInvoker maps extractor config onto the yt-dlp adapter.
func newInvoker(cfg config.AppConfig) *ytdlp.Invoker {
	return ytdlp.New(ytdlp.Config{
		Bin:               cfg.Extractor.Bin,
		UserAgent:         cfg.Extractor.UserAgent,
		Retries:           cfg.Extractor.Retries,
		CheckCertificates: cfg.Extractor.CheckCertificates,
		FetchTimeout:      cfg.Extractor.FetchTimeout,
		MaxOutputBytes:    cfg.Extractor.MaxOutputBytes,
		KillGrace:         cfg.Extractor.KillGrace,
	})
}

func newHealthManager(cfg config.AppConfig, artifactDir string) *health.Manager {
	return health.NewManager(cfg.Version,
		health.NewBinaryChecker("extractor", cfg.Extractor.Bin),
		health.NewDirChecker("artifact_dir", artifactDir),
	)
}

func metricsAddr(cfg config.AppConfig) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.ListenAddr
}

// buildApp wires the API server, the daemon manager and background workers.
func buildApp(ctx context.Context, cfg config.AppConfig, serverCfg config.ServerConfig, logger zerolog.Logger) (*daemon.App, error) {
	artifactDir := os.TempDir()

	srv, err := api.New(cfg, api.Deps{
		Invoker:     newInvoker(cfg),
		ArtifactDir: artifactDir,
		Health:      newHealthManager(cfg, artifactDir),
	})
	if err != nil {
		return nil, fmt.Errorf("build api server: %w", err)
	}

	mgr, err := daemon.NewManager(serverCfg, daemon.Deps{
		Logger:         logger,
		APIHandler:     srv.Handler(),
		MetricsHandler: promhttp.Handler(),
		MetricsAddr:    metricsAddr(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("build daemon manager: %w", err)
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)

	app := daemon.NewApp(logger, mgr)
	if cfg.Sweeper.Enabled {
		app.AddWorker("artifact_sweeper", &acquisition.Sweeper{Conf: acquisition.SweeperConfig{
			Dir:       srv.ArtifactDir(),
			Interval:  cfg.Sweeper.Interval,
			Retention: cfg.Sweeper.Retention,
		}})
	}
	return app, nil
}
