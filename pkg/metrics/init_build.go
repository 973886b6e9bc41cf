package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stormnet_builds_total",
			Help: "Total number of network builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stormnet_build_duration_seconds",
			Help:    "Network build duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.NetworkVariables = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "stormnet_network_variables",
			Help: "Number of variables in the most recently built network",
		},
	)

	r.CPTRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stormnet_cpt_rows_total",
			Help: "CPT rows declared by built networks, by materialisation mode",
		},
		[]string{"mode"},
	)
}
