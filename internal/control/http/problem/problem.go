// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package problem writes the JSON error envelope every API failure uses:
//
//	{"success": false, "error": "<message>", "code": "<CODE>", "requestId": "<id>"}
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/xgfetch/internal/log"
)

const (
	// HeaderRequestID carries the request id on every response.
	HeaderRequestID = "X-Request-ID"
	// JSONKeyRequestID is the envelope key for the request id.
	JSONKeyRequestID = "requestId"
)

// Stable machine-readable codes.
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotAvailable   = "NOT_AVAILABLE"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
	CodeMethodNotAllow = "METHOD_NOT_ALLOWED"
)

// Envelope is the error body.
type Envelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// Write writes an error envelope with the given status.
//
// The request id comes from the request context, then from the response
// header set by the request-id middleware.
func Write(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	reqID := ""
	if r != nil {
		reqID = log.RequestIDFromContext(r.Context())
	} else {
		// All handlers must pass the request; this is a programming error.
		log.L().Error().Str("code", code).Int("status", status).Msg("problem.Write called with nil request")
	}
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}
	if reqID != "" {
		w.Header().Set(HeaderRequestID, reqID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(Envelope{Error: message, Code: code, RequestID: reqID}); err != nil {
		log.L().Error().
			Err(err).
			Str("code", code).
			Int("status", status).
			Msg("failed to encode error envelope")
	}
}
