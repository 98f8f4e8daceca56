// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the public HTTP surface: video info, download and the
// liveness/readiness probes.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/xgfetch/internal/acquisition"
	"github.com/ManuGH/xgfetch/internal/config"
	"github.com/ManuGH/xgfetch/internal/control/http/problem"
	"github.com/ManuGH/xgfetch/internal/control/middleware"
	"github.com/ManuGH/xgfetch/internal/domain/media"
	"github.com/ManuGH/xgfetch/internal/health"
	"github.com/ManuGH/xgfetch/internal/transfer"
)

// tracingService names the tracer used by the HTTP tracing middleware.
const tracingService = "xgfetch.api"

// Deps are the collaborators the server needs. Invoker is required.
type Deps struct {
	Invoker media.Invoker
	// ArtifactDir overrides the platform temp directory (tests only).
	ArtifactDir string
	Health      *health.Manager
}

// Server represents the HTTP API server.
type Server struct {
	cfg          config.AppConfig
	invoker      media.Invoker
	validator    *acquisition.Validator
	acquirer     *acquisition.Manager
	orchestrator *transfer.Orchestrator
	health       *health.Manager
	handler      http.Handler
}

// New wires the request pipeline. No state is shared between requests
// beyond the stateless collaborators built here.
func New(cfg config.AppConfig, deps Deps) (*Server, error) {
	if deps.Invoker == nil {
		return nil, errors.New("api: invoker is required")
	}
	hm := deps.Health
	if hm == nil {
		hm = health.NewManager(cfg.Version)
	}

	s := &Server{
		cfg:          cfg,
		invoker:      deps.Invoker,
		validator:    acquisition.NewValidator(deps.Invoker),
		acquirer:     acquisition.NewManager(deps.Invoker, deps.ArtifactDir),
		orchestrator: transfer.NewOrchestrator(),
		health:       hm,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ArtifactDir is where downloads are materialized.
func (s *Server) ArtifactDir() string {
	return s.acquirer.Dir()
}

func (s *Server) routes() http.Handler {
	stack := middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		EnableLogging:         true,
	}
	if s.cfg.Tracing.Enabled {
		stack.TracingService = tracingService
	}
	r := middleware.NewRouter(stack)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusNotFound, problem.CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusMethodNotAllowed, problem.CodeMethodNotAllow, "method not allowed")
	})

	r.Get("/health", s.health.ServeHealth)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimit.Enabled {
			r.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestLimit: s.cfg.RateLimit.Requests,
				WindowSize:   s.cfg.RateLimit.Window,
			}))
		}
		r.Post("/video-info", s.handleVideoInfo)
		r.Post("/download", s.handleDownload)
	})

	return r
}
