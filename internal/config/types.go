// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the fully resolved daemon configuration.
type AppConfig struct {
	// Version is injected from the binary, never read from file or env.
	Version string `yaml:"-"`

	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	// APIListenAddr is the API server address (e.g. ":3001").
	APIListenAddr string `yaml:"listenAddr"`
	// AllowedOrigins is the CORS allow-list. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins"`

	Server    ServerRuntimeConfig `yaml:"server"`
	Extractor ExtractorConfig     `yaml:"extractor"`
	Sweeper   SweeperConfig       `yaml:"sweeper"`
	RateLimit RateLimitConfig     `yaml:"rateLimit"`
	Metrics   MetricsConfig       `yaml:"metrics"`
	Tracing   TracingConfig       `yaml:"tracing"`
}

// ServerRuntimeConfig holds HTTP server timeouts from file/defaults.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// ExtractorConfig controls the yt-dlp subprocess.
type ExtractorConfig struct {
	// Bin is the yt-dlp executable. Empty resolves via ResolveExtractorBin.
	Bin               string        `yaml:"bin"`
	UserAgent         string        `yaml:"userAgent"`
	Retries           int           `yaml:"retries"`
	CheckCertificates bool          `yaml:"checkCertificates"`
	FetchTimeout      time.Duration `yaml:"fetchTimeout"`
	MaxOutputBytes    int64         `yaml:"maxOutputBytes"`
	KillGrace         time.Duration `yaml:"killGrace"`
}

// SweeperConfig controls orphaned artifact cleanup.
type SweeperConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"`
}

// RateLimitConfig controls the per-IP limiter on /api routes.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listenAddr"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // grpc | http
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}
