// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package acquisition validates a requested encoding against a fresh catalog
// and materializes it into a transient artifact on local storage.
package acquisition

import (
	"context"
	"fmt"

	"github.com/ManuGH/xgfetch/internal/catalog"
	"github.com/ManuGH/xgfetch/internal/domain/media"
	xglog "github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/metrics"
)

// Selection is the validated choice the Manager acquires.
type Selection struct {
	VariantID string
	Quality   string
	Title     string
	Height    int
	Size      *int64
}

// Validator checks a requested (format, quality) pair against the catalog the
// extractor reports right now. It never caches: source encodings can change
// between the info call and the download.
type Validator struct {
	invoker media.Invoker
}

func NewValidator(invoker media.Invoker) *Validator {
	return &Validator{invoker: invoker}
}

// Validate probes url, resolves its catalog and looks up quality in the
// sequence for format. A missing label yields *media.NotAvailableError; probe
// failures are returned unchanged.
func (v *Validator) Validate(ctx context.Context, url string, format media.Format, quality string) (Selection, error) {
	if !format.Valid() {
		return Selection{}, fmt.Errorf("validate: unknown format %q", format)
	}

	probe, err := v.invoker.Probe(ctx, url)
	if err != nil {
		metrics.IncValidation(string(format), "error")
		return Selection{}, err
	}

	entry, ok := catalog.Resolve(probe).Lookup(format, quality)
	if !ok {
		metrics.IncValidation(string(format), "not_available")
		logger := xglog.WithComponentFromContext(ctx, "acquisition")
		logger.Info().
			Str(xglog.FieldEvent, "validate.not_available").
			Str(xglog.FieldVideoID, probe.ID).
			Str(xglog.FieldFormat, string(format)).
			Str(xglog.FieldQuality, quality).
			Msg("requested quality not in catalog")
		return Selection{}, &media.NotAvailableError{Format: format, Quality: quality}
	}

	metrics.IncValidation(string(format), "ok")
	return Selection{
		VariantID: entry.VariantID,
		Quality:   entry.Quality,
		Title:     probe.Title,
		Height:    entry.Height,
		Size:      entry.Size,
	}, nil
}
