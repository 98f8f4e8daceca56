// SPDX-License-Identifier: MIT

// Package health provides liveness and readiness endpoints for the daemon.
// Liveness only says the process answers. Readiness covers what a download
// needs: a runnable extractor and a writable artifact directory.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ManuGH/xgfetch/internal/log"
)

// StatusOK is the liveness status; liveness never reports anything else.
const StatusOK = "ok"

// CheckResult is the outcome of one readiness dependency.
type CheckResult struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Checker is one readiness dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Liveness is the /health and /healthz body.
type Liveness struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Readiness is the /readyz body. Ready is false when any check fails.
type Readiness struct {
	Ready     bool                   `json:"ready"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Failing   []string               `json:"failing,omitempty"`
}

// Manager answers liveness and readiness for a fixed set of checkers.
type Manager struct {
	version  string
	checkers []Checker
}

// NewManager creates a manager reporting version, with optional checkers.
func NewManager(version string, checkers ...Checker) *Manager {
	return &Manager{version: version, checkers: checkers}
}

// Live reports the process as alive regardless of its dependencies.
func (m *Manager) Live() Liveness {
	return Liveness{Status: StatusOK, Version: m.version, Timestamp: time.Now().UTC()}
}

// Ready runs every checker in registration order.
func (m *Manager) Ready(ctx context.Context) Readiness {
	resp := Readiness{Ready: true, Version: m.version, Timestamp: time.Now().UTC()}
	if len(m.checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult, len(m.checkers))
	for _, c := range m.checkers {
		res := c.Check(ctx)
		resp.Checks[c.Name()] = res
		if !res.OK {
			resp.Ready = false
			resp.Failing = append(resp.Failing, c.Name())
		}
	}
	return resp
}

// ServeHealth always answers 200.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, m.Live())
}

// ServeReady answers 503 while any dependency is failing.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	resp := m.Ready(r.Context())
	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
		logger := log.WithComponentFromContext(r.Context(), "readiness")
		logger.Warn().
			Str(log.FieldEvent, "readiness.failing").
			Strs("checks", resp.Failing).
			Msg("not ready")
	}
	writeJSON(w, r, status, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "health")
		logger.Debug().
			Err(err).
			Str(log.FieldEvent, "health.encode_error").
			Msg("failed to write probe response")
	}
}
