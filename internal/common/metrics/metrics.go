// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DecisionsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_evaluated_total",
			Help: "Total number of decisions produced, by outcome label",
		},
		[]string{"decision"},
	)

	IntakesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intakes_rejected_total",
			Help: "Total number of intakes rejected before evaluation",
		},
		[]string{"error_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method", "status"},
	)

	DecisionScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decision_score",
			Help:    "Distribution of decision scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_cache_requests_total",
			Help: "Result cache lookups, by outcome (hit or miss)",
		},
		[]string{"outcome"},
	)
)
