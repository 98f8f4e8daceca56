// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManuGH/xgfetch/internal/config"
	"github.com/ManuGH/xgfetch/internal/control/http/problem"
	"github.com/ManuGH/xgfetch/internal/domain/media"
)

const watchURL = "https://www.youtube.com/watch?v=abc123"

// fakeInvoker is a scripted media.Invoker.
type fakeInvoker struct {
	mu sync.Mutex

	probe     *media.ProbeResult
	probeErr  error
	fetchData []byte
	fetchErr  error

	probeCalls int
	fetches    []media.FetchRequest
}

func (f *fakeInvoker) Probe(_ context.Context, _ string) (*media.ProbeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.probe, nil
}

func (f *fakeInvoker) Fetch(_ context.Context, _ string, req media.FetchRequest) error {
	f.mu.Lock()
	f.fetches = append(f.fetches, req)
	f.mu.Unlock()
	if f.fetchData != nil {
		if err := os.WriteFile(req.Destination, f.fetchData, 0o600); err != nil {
			return err
		}
	}
	return f.fetchErr
}

func (f *fakeInvoker) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func sampleProbe() *media.ProbeResult {
	return &media.ProbeResult{
		ID:        "abc123",
		Title:     "Zé's <Amazing> Vídeo!! ",
		Duration:  212,
		Thumbnail: "https://i.ytimg.com/vi/abc123/hq.jpg",
		Variants: []media.RawVariant{
			{ID: "fmt137", VideoCodec: "avc1", AudioCodec: "none", Height: 1080, Bitrate: 4500, Ext: "mp4", Size: 9000},
			{ID: "fmt22", VideoCodec: "avc1", AudioCodec: "mp4a", Height: 720, Bitrate: 1500, Ext: "mp4"},
			{ID: "fmt140", VideoCodec: "none", AudioCodec: "mp4a", AudioBitrate: 129.5, Ext: "m4a", Size: 3000},
			{ID: "fmt249", VideoCodec: "none", AudioCodec: "opus", AudioBitrate: 50, Ext: "webm"},
		},
	}
}

func testConfig() config.AppConfig {
	cfg := config.Defaults()
	cfg.Version = "test"
	return cfg
}

func newTestServer(t *testing.T, cfg config.AppConfig, inv *fakeInvoker) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv, err := New(cfg, Deps{Invoker: inv, ArtifactDir: dir})
	require.NoError(t, err)
	return srv, dir
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) problem.Envelope {
	t.Helper()
	var env problem.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
