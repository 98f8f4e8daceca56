// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("XGFETCH_YTDLP_BIN", "/opt/yt-dlp")

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, DefaultListenAddr, cfg.APIListenAddr)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, "/opt/yt-dlp", cfg.Extractor.Bin)
	assert.Equal(t, 3, cfg.Extractor.Retries)
	assert.False(t, cfg.Extractor.CheckCertificates)
	assert.Equal(t, DefaultFetchTimeout, cfg.Extractor.FetchTimeout)
	assert.Equal(t, int64(DefaultMaxOutputBytes), cfg.Extractor.MaxOutputBytes)
	assert.True(t, cfg.Sweeper.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
logLevel: debug
listenAddr: ":4000"
allowedOrigins: ["https://app.example"]
extractor:
  bin: /usr/local/bin/yt-dlp
  fetchTimeout: 2m
rateLimit:
  enabled: true
  requests: 10
  window: 30s
`)

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":4000", cfg.APIListenAddr)
	assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "/usr/local/bin/yt-dlp", cfg.Extractor.Bin)
	assert.Equal(t, 2*time.Minute, cfg.Extractor.FetchTimeout)
	assert.Equal(t, 3, cfg.Extractor.Retries, "unset keys keep defaults")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yml", "listenAddr: \":4000\"\nextractor:\n  retries: 5\n")
	t.Setenv("XGFETCH_LISTEN", ":5000")
	t.Setenv("XGFETCH_YTDLP_RETRIES", "1")
	t.Setenv("XGFETCH_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.APIListenAddr)
	assert.Equal(t, 1, cfg.Extractor.Retries)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Contains(t, l.ConsumedEnvKeys, "XGFETCH_LISTEN")
	assert.Contains(t, l.ConsumedEnvKeys, "XGFETCH_TRACING_SAMPLING_RATE")
}

func TestLoad_PortEnvFallback(t *testing.T) {
	t.Setenv("PORT", "8123")
	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, ":8123", cfg.APIListenAddr)

	t.Setenv("XGFETCH_LISTEN", "127.0.0.1:9000")
	cfg, err = NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.APIListenAddr)
}

func TestLoad_StrictFile(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "extractor:\n  binary: yt-dlp\n")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownConfigField)
	})

	t.Run("multiple documents", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "logLevel: info\n---\nlogLevel: debug\n")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple documents")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "config.json", "{}")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only YAML supported")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "")
		cfg, err := NewLoader(path, "dev").Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultListenAddr, cfg.APIListenAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), "dev").Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoad_InvalidValuesFailValidation(t *testing.T) {
	t.Setenv("XGFETCH_LOG_LEVEL", "chatty")
	_, err := NewLoader("", "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
