// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Worker is a background loop that runs until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// App owns the long-lived runtime lifecycle (background workers) and
// delegates server management to Manager.
type App struct {
	logger  zerolog.Logger
	manager Manager
	workers map[string]Worker
	order   []string
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager) *App {
	return &App{
		logger:  logger,
		manager: manager,
		workers: make(map[string]Worker),
	}
}

// AddWorker registers a background worker started by Run. A nil worker is ignored.
func (a *App) AddWorker(name string, w Worker) {
	if w == nil {
		return
	}
	if _, dup := a.workers[name]; !dup {
		a.order = append(a.order, name)
	}
	a.workers[name] = w
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, name := range a.order {
		w := a.workers[name]
		g.Go(func() error {
			a.logger.Debug().Str("event", "worker.start").Str("worker", name).Msg("background worker started")
			w.Run(ctx)
			a.logger.Debug().Str("event", "worker.stop").Str("worker", name).Msg("background worker stopped")
			return nil
		})
	}

	// Main server lifecycle. Its return cancels the group context and stops the workers.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}
