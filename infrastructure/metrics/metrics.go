package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Messaging-core metrics
var (
	// Poll counters by resource (messages / conversations) and outcome
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "polls_total",
			Help:      "Total synchronization polls",
		},
		[]string{"resource", "status"},
	)

	// Poll duration histogram
	PollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "poll_duration_seconds",
			Help:      "Synchronization poll duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"resource"},
	)

	// Forced out-of-band refreshes after local mutations
	ForcedRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "forced_refreshes_total",
			Help:      "Out-of-band refreshes triggered by send/delete/group mutations",
		},
	)

	// Responses discarded by the stale-response guard
	StaleResponsesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "stale_responses_discarded_total",
			Help:      "Fetch results discarded because the active conversation changed",
		},
	)

	// Ticks skipped because the previous fetch was still in flight
	SkippedTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "skipped_ticks_total",
			Help:      "Scheduled ticks skipped while a fetch was outstanding",
		},
		[]string{"resource"},
	)

	// Backend request counters by operation and outcome
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worktrack",
			Subsystem: "messaging",
			Name:      "backend_requests_total",
			Help:      "Total backend REST requests",
		},
		[]string{"operation", "status"},
	)
)

// RecordPoll records one synchronization poll outcome.
func RecordPoll(resource, status string, seconds float64) {
	PollsTotal.WithLabelValues(resource, status).Inc()
	PollDuration.WithLabelValues(resource).Observe(seconds)
}

// RecordBackendRequest records one backend REST call outcome.
func RecordBackendRequest(operation, status string) {
	BackendRequestsTotal.WithLabelValues(operation, status).Inc()
}
