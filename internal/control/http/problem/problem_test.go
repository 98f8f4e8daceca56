// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/xgfetch/internal/log"
)

func TestWrite_EnvelopeFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/download", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "req-42"))
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusBadRequest, CodeNotAvailable, `quality "999kbps" is not available for format "audio"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, CodeNotAvailable, body["code"])
	assert.Equal(t, "req-42", body[JSONKeyRequestID])
	assert.Contains(t, body["error"], "999kbps")
}

func TestWrite_FallsBackToResponseHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set(HeaderRequestID, "from-header")

	Write(rec, req, http.StatusInternalServerError, CodeInternal, "internal error")

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "from-header", env.RequestID)
	assert.False(t, env.Success)
}
