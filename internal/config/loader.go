// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envStringList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringList(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order is fixed: defaults, strict file parse, env overrides, validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	cfg.Extractor.Bin = ResolveExtractorBin(cfg.Extractor.Bin)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = l.envString("XGFETCH_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("XGFETCH_LOG_SERVICE", cfg.LogService)

	// PORT is honoured for platforms that inject it; XGFETCH_LISTEN wins.
	if port := strings.TrimSpace(l.envString("PORT", "")); port != "" {
		cfg.APIListenAddr = ":" + port
	}
	cfg.APIListenAddr = l.envString("XGFETCH_LISTEN", cfg.APIListenAddr)
	cfg.AllowedOrigins = l.envStringList("XGFETCH_ALLOWED_ORIGINS", cfg.AllowedOrigins)

	cfg.Extractor.Bin = l.envString("XGFETCH_YTDLP_BIN", cfg.Extractor.Bin)
	cfg.Extractor.UserAgent = l.envString("XGFETCH_YTDLP_USER_AGENT", cfg.Extractor.UserAgent)
	cfg.Extractor.Retries = l.envInt("XGFETCH_YTDLP_RETRIES", cfg.Extractor.Retries)
	cfg.Extractor.CheckCertificates = l.envBool("XGFETCH_YTDLP_CHECK_CERTIFICATES", cfg.Extractor.CheckCertificates)
	cfg.Extractor.FetchTimeout = l.envDuration("XGFETCH_FETCH_TIMEOUT", cfg.Extractor.FetchTimeout)
	cfg.Extractor.MaxOutputBytes = int64(l.envInt("XGFETCH_MAX_OUTPUT_BYTES", int(cfg.Extractor.MaxOutputBytes)))
	cfg.Extractor.KillGrace = l.envDuration("XGFETCH_KILL_GRACE", cfg.Extractor.KillGrace)

	cfg.Sweeper.Enabled = l.envBool("XGFETCH_SWEEPER_ENABLED", cfg.Sweeper.Enabled)
	cfg.Sweeper.Interval = l.envDuration("XGFETCH_SWEEPER_INTERVAL", cfg.Sweeper.Interval)
	cfg.Sweeper.Retention = l.envDuration("XGFETCH_SWEEPER_RETENTION", cfg.Sweeper.Retention)

	cfg.RateLimit.Enabled = l.envBool("XGFETCH_RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = l.envInt("XGFETCH_RATELIMIT_REQUESTS", cfg.RateLimit.Requests)
	cfg.RateLimit.Window = l.envDuration("XGFETCH_RATELIMIT_WINDOW", cfg.RateLimit.Window)

	cfg.Metrics.Enabled = l.envBool("XGFETCH_METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.ListenAddr = l.envString("XGFETCH_METRICS_LISTEN", cfg.Metrics.ListenAddr)

	cfg.Tracing.Enabled = l.envBool("XGFETCH_TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString("XGFETCH_TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString("XGFETCH_TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat("XGFETCH_TRACING_SAMPLING_RATE", cfg.Tracing.SamplingRate)
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}
