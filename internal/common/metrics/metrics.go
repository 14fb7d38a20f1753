// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_scored_total",
			Help: "Total number of assessments scored, by overall tier",
		},
		[]string{"overall_tier"},
	)

	AssessmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assessment_duration_seconds",
			Help: "Duration of assessment processing in seconds",
		},
		[]string{"stage"},
	)

	GenerationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_generation_calls_total",
			Help: "Total number of advisory generation calls, by outcome",
		},
		[]string{"outcome"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_cache_requests_total",
			Help: "Total number of advisory cache lookups, by result",
		},
		[]string{"result"},
	)
)
