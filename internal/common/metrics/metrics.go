// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SelectionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_selections_received_total",
			Help: "Total number of place selection events received",
		},
		[]string{"source"},
	)

	SelectionsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_selections_duplicate_total",
			Help: "Total number of selections dropped as session duplicates",
		},
	)

	SelectionsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_selections_skipped_total",
			Help: "Total number of selections skipped before submission",
		},
		[]string{"reason"},
	)

	SelectionsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_selections_submitted_total",
			Help: "Total number of payloads handed to the backend submitter",
		},
	)

	SubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submission_failures_total",
			Help: "Total number of failed backend submissions",
		},
		[]string{"reason"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "intake_submission_duration_seconds",
			Help: "Duration of backend submission requests in seconds",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_sessions_active",
			Help: "Number of installed page sessions",
		},
	)
)
