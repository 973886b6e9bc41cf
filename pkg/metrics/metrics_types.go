package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Build Metrics
	BuildsTotal      *prometheus.CounterVec
	BuildDuration    prometheus.Histogram
	NetworkVariables prometheus.Gauge
	CPTRowsTotal     *prometheus.CounterVec

	// Query Metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration prometheus.Histogram
	QueryBranches prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initBuildMetrics()
	r.initQueryMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Sample is one flattened metric value from a Snapshot
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}
