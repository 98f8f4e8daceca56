// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

const (
	DefaultListenAddr        = ":3001"
	DefaultMetricsListenAddr = ":9091"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultFetchTimeout      = 5 * time.Minute
	DefaultMaxOutputBytes    = 10 << 20
	DefaultSweepInterval     = 10 * time.Minute
	DefaultSweepRetention    = 6 * time.Hour

	minMaxOutputBytes = 1 << 20
)

// DefaultAllowedOrigins are the local frontend dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Defaults returns the configuration used when neither file nor env set a value.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:       "info",
		LogService:     "xgfetch",
		APIListenAddr:  DefaultListenAddr,
		AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		Server: ServerRuntimeConfig{
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			MaxHeaderBytes:  defaultMaxHeaderBytes,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Extractor: ExtractorConfig{
			UserAgent:      DefaultUserAgent,
			Retries:        3,
			FetchTimeout:   DefaultFetchTimeout,
			MaxOutputBytes: DefaultMaxOutputBytes,
			KillGrace:      2 * time.Second,
		},
		Sweeper: SweeperConfig{
			Enabled:   true,
			Interval:  DefaultSweepInterval,
			Retention: DefaultSweepRetention,
		},
		RateLimit: RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: DefaultMetricsListenAddr,
		},
		Tracing: TracingConfig{
			Exporter:     "grpc",
			SamplingRate: 1.0,
		},
	}
}
