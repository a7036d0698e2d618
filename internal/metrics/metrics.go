package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loginwatch_lines_processed_total",
			Help: "Audit lines read from the input stream",
		},
	)

	LineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loginwatch_line_outcomes_total",
			Help: "Per-line pipeline outcomes",
		},
		[]string{"outcome"},
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loginwatch_delivery_duration_seconds",
			Help:    "Time spent handing a notification to the delivery transport",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	ExclusionEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loginwatch_exclusion_entries",
			Help: "Normalized entries in the exclusion set",
		},
	)

	ExclusionResolveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loginwatch_exclusion_resolve_failures_total",
			Help: "Exclusion entries kept verbatim because resolution failed",
		},
	)
)
