// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Extractor metrics
	extractorInvocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_extractor_invocations_total",
		Help: "Extractor subprocess invocations by mode and outcome",
	}, []string{"mode", "outcome"}) // mode=probe|fetch outcome=success|unavailable|process_failure|timeout|parse_failure|buffer_overflow

	extractorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xgfetch_extractor_duration_seconds",
		Help:    "Wall-clock duration of extractor subprocess invocations",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"mode"})

	// Pipeline metrics
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_validations_total",
		Help: "Encoding validations by outcome",
	}, []string{"format", "outcome"}) // outcome=ok|not_available|error

	artifactsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xgfetch_artifacts_in_flight",
		Help: "Transient artifacts currently held on local storage",
	})

	artifactReleasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_artifact_releases_total",
		Help: "Transient artifact releases by outcome",
	}, []string{"outcome"}) // outcome=removed|missing|error

	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_transfers_total",
		Help: "Artifact transfers by format and outcome",
	}, []string{"format", "outcome"}) // outcome=complete|failed_uncommitted|aborted

	transferBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xgfetch_transfer_bytes_total",
		Help: "Total artifact bytes written to clients",
	})

	sweeperRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xgfetch_sweeper_removed_total",
		Help: "Orphaned artifacts removed by the background sweeper",
	})
)

// ObserveExtractor records the outcome and duration of one extractor invocation.
func ObserveExtractor(mode, outcome string, d time.Duration) {
	extractorInvocationsTotal.WithLabelValues(mode, outcome).Inc()
	extractorDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// IncValidation records an encoding validation outcome.
func IncValidation(format, outcome string) {
	validationsTotal.WithLabelValues(format, outcome).Inc()
}

// ArtifactAcquired marks a new transient artifact as held.
func ArtifactAcquired() {
	artifactsInFlight.Inc()
}

// ArtifactReleased records a release and drops the in-flight gauge.
func ArtifactReleased(outcome string) {
	artifactsInFlight.Dec()
	artifactReleasesTotal.WithLabelValues(outcome).Inc()
}

// IncTransfer records a transfer outcome.
func IncTransfer(format, outcome string) {
	transfersTotal.WithLabelValues(format, outcome).Inc()
}

// AddTransferBytes adds bytes streamed to clients.
func AddTransferBytes(n int64) {
	if n > 0 {
		transferBytesTotal.Add(float64(n))
	}
}

// IncSweeperRemoved counts one orphaned artifact removed by the sweeper.
func IncSweeperRemoved() {
	sweeperRemovedTotal.Inc()
}
