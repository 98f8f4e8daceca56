// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks the resolved configuration. Every failure wraps ErrInvalidConfig.
func Validate(cfg AppConfig) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		add("logLevel %q: %v", cfg.LogLevel, err)
	}
	if err := validateListenAddr(cfg.APIListenAddr); err != nil {
		add("listenAddr: %v", err)
	}
	if len(cfg.AllowedOrigins) == 0 {
		add("allowedOrigins must not be empty")
	}

	x := cfg.Extractor
	if x.Retries < 0 {
		add("extractor.retries must be >= 0, got %d", x.Retries)
	}
	if x.FetchTimeout <= 0 {
		add("extractor.fetchTimeout must be > 0, got %s", x.FetchTimeout)
	}
	if x.MaxOutputBytes < minMaxOutputBytes {
		add("extractor.maxOutputBytes must be >= %d, got %d", minMaxOutputBytes, x.MaxOutputBytes)
	}
	if x.KillGrace < 0 {
		add("extractor.killGrace must be >= 0, got %s", x.KillGrace)
	}

	if cfg.Sweeper.Enabled {
		if cfg.Sweeper.Interval <= 0 {
			add("sweeper.interval must be > 0 when enabled")
		}
		if cfg.Sweeper.Retention < cfg.Extractor.FetchTimeout {
			add("sweeper.retention (%s) must not be shorter than extractor.fetchTimeout (%s)",
				cfg.Sweeper.Retention, cfg.Extractor.FetchTimeout)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Requests <= 0 {
			add("rateLimit.requests must be > 0 when enabled")
		}
		if cfg.RateLimit.Window <= 0 {
			add("rateLimit.window must be > 0 when enabled")
		}
	}

	if cfg.Metrics.Enabled {
		if err := validateListenAddr(cfg.Metrics.ListenAddr); err != nil {
			add("metrics.listenAddr: %v", err)
		} else if cfg.Metrics.ListenAddr == cfg.APIListenAddr {
			add("metrics.listenAddr must differ from listenAddr")
		}
	}

	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Exporter {
		case "grpc", "http":
		default:
			add("tracing.exporter must be grpc or http, got %q", cfg.Tracing.Exporter)
		}
		if cfg.Tracing.SamplingRate < 0 || cfg.Tracing.SamplingRate > 1 {
			add("tracing.samplingRate must be within [0,1], got %v", cfg.Tracing.SamplingRate)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func validateListenAddr(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("must not be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}
	return nil
}
