// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package acquisition

import (
	"context"
	"os"
	"sync"

	"github.com/ManuGH/xgfetch/internal/domain/media"
)

// stubInvoker is a scripted media.Invoker.
type stubInvoker struct {
	mu sync.Mutex

	probe    *media.ProbeResult
	probeErr error
	// fetchData, when non-nil, is written to the destination before fetchErr is returned.
	fetchData []byte
	fetchErr  error

	probeCalls int
	fetches    []media.FetchRequest
}

func (s *stubInvoker) Probe(_ context.Context, _ string) (*media.ProbeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeCalls++
	if s.probeErr != nil {
		return nil, s.probeErr
	}
	return s.probe, nil
}

func (s *stubInvoker) Fetch(_ context.Context, _ string, req media.FetchRequest) error {
	s.mu.Lock()
	s.fetches = append(s.fetches, req)
	s.mu.Unlock()
	if s.fetchData != nil {
		if err := os.WriteFile(req.Destination, s.fetchData, 0o600); err != nil {
			return err
		}
	}
	return s.fetchErr
}

func sampleProbe() *media.ProbeResult {
	return &media.ProbeResult{
		ID:    "abc123",
		Title: "Sample Clip",
		Variants: []media.RawVariant{
			{ID: "137", VideoCodec: "avc1", AudioCodec: "none", Height: 1080, Bitrate: 4500, Ext: "mp4", Size: 9000},
			{ID: "22", VideoCodec: "avc1", AudioCodec: "mp4a", Height: 720, Bitrate: 1500, Ext: "mp4"},
			{ID: "140", VideoCodec: "none", AudioCodec: "mp4a", AudioBitrate: 129.5, Ext: "m4a", Size: 3000},
		},
	}
}
