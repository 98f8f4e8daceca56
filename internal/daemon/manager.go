// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon owns the process lifecycle: HTTP listeners, background
// workers and ordered shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/xgfetch/internal/config"
)

const fallbackShutdownTimeout = 15 * time.Second

// ShutdownHook releases a resource during shutdown. Hooks run LIFO after
// the listeners have stopped.
type ShutdownHook func(ctx context.Context) error

// Manager runs the API listener and the optional metrics listener.
type Manager interface {
	// Start serves until ctx is done or a listener fails, then shuts down.
	Start(ctx context.Context) error
	// Shutdown drains the listeners within the configured timeout and runs the hooks.
	Shutdown(ctx context.Context) error
	RegisterShutdownHook(name string, hook ShutdownHook)
}

type lifecycle int

const (
	idle lifecycle = iota
	running
	stopping
)

// listener pairs an http.Server with the name used in logs and errors.
type listener struct {
	name string
	srv  *http.Server
}

type namedHook struct {
	name string
	hook ShutdownHook
}

type manager struct {
	serverCfg config.ServerConfig
	deps      Deps
	logger    zerolog.Logger

	mu        sync.Mutex
	state     lifecycle
	listeners []listener
	hooks     []namedHook
}

// NewManager validates deps and returns an idle manager.
func NewManager(serverCfg config.ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if serverCfg.ShutdownTimeout <= 0 {
		serverCfg.ShutdownTimeout = fallbackShutdownTimeout
	}
	return &manager{
		serverCfg: serverCfg,
		deps:      deps,
		logger:    deps.Logger.With().Str("component", "daemon").Logger(),
	}, nil
}

// listenersFor builds the API server and, when configured, the metrics server.
// The API server has no write timeout by default so long downloads can stream.
func (m *manager) listenersFor() []listener {
	ls := []listener{{
		name: "API server",
		srv: &http.Server{
			Addr:              m.serverCfg.ListenAddr,
			Handler:           m.deps.APIHandler,
			ReadTimeout:       m.serverCfg.ReadTimeout,
			ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
			WriteTimeout:      m.serverCfg.WriteTimeout,
			IdleTimeout:       m.serverCfg.IdleTimeout,
			MaxHeaderBytes:    m.serverCfg.MaxHeaderBytes,
		},
	}}
	if m.deps.MetricsHandler != nil && m.deps.MetricsAddr != "" {
		ls = append(ls, listener{
			name: "metrics server",
			srv: &http.Server{
				Addr:              m.deps.MetricsAddr,
				Handler:           m.deps.MetricsHandler,
				ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
			},
		})
	}
	return ls
}

func (m *manager) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("start context is nil")
	}

	m.mu.Lock()
	if m.state != idle {
		m.mu.Unlock()
		return ErrManagerAlreadyStarted
	}
	m.state = running
	m.listeners = m.listenersFor()
	ls := m.listeners
	m.mu.Unlock()

	m.logger.Info().
		Str("event", "daemon.start").
		Str("listen", m.serverCfg.ListenAddr).
		Str("metrics_listen", m.deps.MetricsAddr).
		Dur("write_timeout", m.serverCfg.WriteTimeout).
		Dur("shutdown_timeout", m.serverCfg.ShutdownTimeout).
		Msg("starting listeners")

	failed := make(chan error, len(ls))
	for _, l := range ls {
		go m.serve(l, failed)
	}

	var cause error
	select {
	case cause = <-failed:
		m.logger.Error().Err(cause).Str("event", "daemon.listener_failed").Msg("listener failed, shutting down")
	case <-ctx.Done():
		m.logger.Info().Str("event", "daemon.signal").Msg("shutdown requested")
	}

	err := m.Shutdown(ctx)
	if cause != nil {
		if err != nil {
			return errors.Join(cause, err)
		}
		return cause
	}
	return err
}

func (m *manager) serve(l listener, failed chan<- error) {
	m.logger.Info().Str("server", l.name).Str("addr", l.srv.Addr).Msg("listening")
	if err := l.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		failed <- fmt.Errorf("%s: %w", l.name, err)
	}
}

func (m *manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown context is nil")
	}

	m.mu.Lock()
	switch m.state {
	case idle:
		m.mu.Unlock()
		return ErrManagerNotStarted
	case stopping:
		m.mu.Unlock()
		return nil
	}
	m.state = stopping
	ls := m.listeners
	hooks := append([]namedHook(nil), m.hooks...)
	m.mu.Unlock()

	// The drain deadline is ours alone; a cancelled caller must not cut it short.
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.serverCfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	for _, l := range ls {
		if err := l.srv.Shutdown(drainCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", l.name, err))
			// Downloads still streaming past the deadline are cut off.
			_ = l.srv.Close()
		}
	}
	errs = append(errs, m.runHooks(drainCtx, hooks)...)

	if len(errs) > 0 {
		m.logger.Error().Int("error_count", len(errs)).Str("event", "daemon.stopped").Msg("shutdown completed with errors")
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	m.logger.Info().Str("event", "daemon.stopped").Msg("stopped cleanly")
	return nil
}

func (m *manager) runHooks(ctx context.Context, hooks []namedHook) []error {
	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		start := time.Now()
		err := h.hook(ctx)
		ev := m.logger.Debug()
		if err != nil {
			ev = m.logger.Error().Err(err)
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
		}
		ev.Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook finished")
	}
	return errs
}

func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, hook: hook})
}
