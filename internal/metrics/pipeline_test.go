// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromhttpExposure(t *testing.T) {
	ObserveExtractor("probe", "success", 150*time.Millisecond)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "xgfetch_extractor_invocations_total"))
}

func TestObserveExtractor_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(extractorInvocationsTotal.WithLabelValues("fetch", "timeout"))
	ObserveExtractor("fetch", "timeout", 5*time.Minute)
	after := testutil.ToFloat64(extractorInvocationsTotal.WithLabelValues("fetch", "timeout"))
	assert.Equal(t, before+1, after)
}

func TestArtifactGaugeBalances(t *testing.T) {
	start := testutil.ToFloat64(artifactsInFlight)
	ArtifactAcquired()
	ArtifactAcquired()
	ArtifactReleased("removed")
	ArtifactReleased("missing")
	assert.Equal(t, start, testutil.ToFloat64(artifactsInFlight))

	var m dto.Metric
	require.NoError(t, artifactReleasesTotal.WithLabelValues("missing").Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(1))
}

func TestAddTransferBytes_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(transferBytesTotal)
	AddTransferBytes(0)
	AddTransferBytes(-5)
	AddTransferBytes(1024)
	assert.Equal(t, before+1024, testutil.ToFloat64(transferBytesTotal))
}
