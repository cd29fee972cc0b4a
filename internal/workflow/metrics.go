package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	componentFields   = "fields"
	componentRetrieve = "retrieve"
	componentClassify = "classify"
	componentFollowUp = "follow_up"
	componentVerify   = "verify"
	componentFAQ      = "faq"
)

var (
	degradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redress",
			Subsystem: "pipeline",
			Name:      "degraded_total",
			Help:      "Pipeline steps that absorbed an external failure, by component and error kind.",
		},
		[]string{"component", "kind"},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "redress",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Wall time of pipeline steps, including external calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"component"},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "redress",
			Subsystem: "pipeline",
			Name:      "category_candidates",
			Help:      "Number of category candidates returned per retrieval.",
			Buckets:   prometheus.LinearBuckets(0, 2, 6),
		},
	)
)

func observe(component string, start time.Time) {
	stepDuration.WithLabelValues(component).Observe(time.Since(start).Seconds())
}
