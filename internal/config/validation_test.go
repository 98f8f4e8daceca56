// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"bad listen", func(c *AppConfig) { c.APIListenAddr = "3001" }, "listenAddr"},
		{"no origins", func(c *AppConfig) { c.AllowedOrigins = nil }, "allowedOrigins"},
		{"negative retries", func(c *AppConfig) { c.Extractor.Retries = -1 }, "extractor.retries"},
		{"zero fetch timeout", func(c *AppConfig) { c.Extractor.FetchTimeout = 0 }, "extractor.fetchTimeout"},
		{"tiny output cap", func(c *AppConfig) { c.Extractor.MaxOutputBytes = 512 }, "extractor.maxOutputBytes"},
		{"retention below fetch timeout", func(c *AppConfig) { c.Sweeper.Retention = time.Minute }, "sweeper.retention"},
		{"rate limit without requests", func(c *AppConfig) {
			c.RateLimit.Enabled = true
			c.RateLimit.Requests = 0
		}, "rateLimit.requests"},
		{"metrics on api port", func(c *AppConfig) { c.Metrics.ListenAddr = c.APIListenAddr }, "must differ"},
		{"tracing exporter", func(c *AppConfig) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "zipkin"
		}, "tracing.exporter"},
		{"sampling rate", func(c *AppConfig) {
			c.Tracing.Enabled = true
			c.Tracing.SamplingRate = 1.5
		}, "tracing.samplingRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate_DisabledSectionsAreNotChecked(t *testing.T) {
	cfg := Defaults()
	cfg.Sweeper.Enabled = false
	cfg.Sweeper.Interval = 0
	cfg.Metrics.Enabled = false
	cfg.Metrics.ListenAddr = ""
	assert.NoError(t, Validate(cfg))
}
