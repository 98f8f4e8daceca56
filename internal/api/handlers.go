// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/xgfetch/internal/catalog"
	"github.com/ManuGH/xgfetch/internal/control/http/problem"
	"github.com/ManuGH/xgfetch/internal/domain/media"
	"github.com/ManuGH/xgfetch/internal/log"
	"github.com/ManuGH/xgfetch/internal/transfer"
)

const (
	msgInfoFailed     = "failed to fetch video information, please try again"
	msgUnavailable    = "video not found or unavailable"
	msgDownloadFailed = "failed to process download, please try again"
)

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	var req infoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.CodeInvalidInput, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.CodeInvalidInput, err.Error())
		return
	}

	probe, err := s.invoker.Probe(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, media.ErrResourceUnavailable) {
			logger.Info().Err(err).Str(log.FieldEvent, "info.unavailable").Msg("video unavailable")
			problem.Write(w, r, http.StatusNotFound, problem.CodeNotFound, msgUnavailable)
			return
		}
		logger.Error().Err(err).Str(log.FieldEvent, "info.failed").Msg("probe failed")
		problem.Write(w, r, http.StatusInternalServerError, problem.CodeInternal, msgInfoFailed)
		return
	}

	cat := catalog.Resolve(probe)
	logger.Debug().
		Str(log.FieldEvent, "info.resolved").
		Str(log.FieldVideoID, probe.ID).
		Int("video_qualities", len(cat.Video)).
		Int("audio_qualities", len(cat.Audio)).
		Msg("catalog resolved")

	writeJSON(w, http.StatusOK, infoResponse{Success: true, Data: toVideoInfo(probe, cat)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.WithComponentFromContext(ctx, "api")

	var req downloadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.CodeInvalidInput, err.Error())
		return
	}
	format, err := req.validate()
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.CodeInvalidInput, err.Error())
		return
	}

	sel, err := s.validator.Validate(ctx, req.URL, format, req.Quality)
	if err != nil {
		var na *media.NotAvailableError
		if errors.As(err, &na) {
			problem.Write(w, r, http.StatusBadRequest, problem.CodeNotAvailable,
				fmt.Sprintf("quality %q is not available for format %q", req.Quality, req.Format))
			return
		}
		logger.Error().Err(err).Str(log.FieldEvent, "download.validate_failed").Msg("validation failed")
		problem.Write(w, r, http.StatusInternalServerError, problem.CodeInternal, msgDownloadFailed)
		return
	}

	handle, err := s.acquirer.Acquire(ctx, req.URL, format, sel)
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "download.acquire_failed").Msg("acquisition failed")
		problem.Write(w, r, http.StatusInternalServerError, problem.CodeInternal, msgDownloadFailed)
		return
	}

	// Transfer owns the handle from here and releases it on every path.
	if err := s.orchestrator.Transfer(ctx, handle, w, sel.Title, format); err != nil {
		var te *transfer.TransferError
		if errors.As(err, &te) && te.Committed {
			logger.Warn().Err(err).
				Str(log.FieldEvent, "download.aborted").
				Int64(log.FieldBytes, te.Written).
				Msg("transfer aborted after response started")
			return
		}
		logger.Error().Err(err).Str(log.FieldEvent, "download.transfer_failed").Msg("transfer failed")
		problem.Write(w, r, http.StatusInternalServerError, problem.CodeInternal, msgDownloadFailed)
		return
	}

	logger.Info().
		Str(log.FieldEvent, "download.complete").
		Str(log.FieldFormat, string(format)).
		Str(log.FieldQuality, sel.Quality).
		Msg("download delivered")
}
