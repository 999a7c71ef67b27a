// Package metrics provides Prometheus collectors for flowext task and
// adapter activity. The library only records; exposing an endpoint and
// scraping are the embedding engine's concern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TaskRuns counts task executions by tag, alias, and outcome
	// (success/failure).
	TaskRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowext",
			Subsystem: "tasks",
			Name:      "runs_total",
			Help:      "Total task executions by tag, alias, and outcome",
		},
		[]string{"tag", "alias", "outcome"},
	)

	// TaskDuration tracks task execution latency.
	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flowext",
			Subsystem: "tasks",
			Name:      "duration_seconds",
			Help:      "Task execution duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"tag", "alias"},
	)

	// ConnChecks counts adapter liveness and existence checks by dialect,
	// operation (ping/exists), and outcome.
	ConnChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowext",
			Subsystem: "conn",
			Name:      "checks_total",
			Help:      "Total connection checks by dialect, operation, and outcome",
		},
		[]string{"dialect", "operation", "outcome"},
	)
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OutcomeOf maps an error to its outcome label.
func OutcomeOf(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
