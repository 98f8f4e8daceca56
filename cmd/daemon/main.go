// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/xgfetch/internal/config"
	"github.com/ManuGH/xgfetch/internal/health"
	xglog "github.com/ManuGH/xgfetch/internal/log"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(runHealthcheckCLI(os.Args[2:]))
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "xgfetch",
		Version: version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	if path == "" {
		path = strings.TrimSpace(config.ParseString("XGFETCH_CONFIG", ""))
	}

	cfg, err := config.NewLoader(path, version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	if path != "" {
		logger.Info().Str("event", "config.loaded").Str("source", "file").Str("path", path).Msg("loaded configuration from file")
	} else {
		logger.Info().Str("event", "config.loaded").Str("source", "env+defaults").Msg("loaded configuration from environment and defaults")
	}

	serverCfg := config.ParseServerConfigForApp(cfg)
	if bindHost := strings.TrimSpace(config.ParseString("XGFETCH_BIND_INTERFACE", "")); bindHost != "" {
		listen, err := config.BindListenAddr(serverCfg.ListenAddr, bindHost)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid XGFETCH_BIND_INTERFACE for API listen")
		}
		serverCfg.ListenAddr = listen
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting xgfetch")
	logger.Info().Msgf("→ Extractor: %s (retries %d, fetch timeout %s)", cfg.Extractor.Bin, cfg.Extractor.Retries, cfg.Extractor.FetchTimeout)
	logger.Info().Msgf("→ Artifacts: %s", os.TempDir())
	if cfg.RateLimit.Enabled {
		logger.Info().Msgf("→ Rate limit: %d requests / %s per IP", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	if err := health.PerformStartupChecks(ctx, cfg.Extractor.Bin, os.TempDir()); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("Startup checks failed. Please verify configuration and permissions.")
	}

	app, err := buildApp(ctx, cfg, serverCfg, logger)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "app.build_failed").
			Msg("failed to build daemon")
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}
