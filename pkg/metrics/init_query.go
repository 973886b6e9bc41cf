package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stormnet_queries_total",
			Help: "Total number of inference queries",
		},
		[]string{"status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stormnet_query_duration_seconds",
			Help:    "Inference query duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.QueryBranches = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stormnet_query_branches",
			Help:    "Number of joint query assignments enumerated per query",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
}
