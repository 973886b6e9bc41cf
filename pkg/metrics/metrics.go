package metrics

import (
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// RecordBuild records a network build. Pass variables = 0 for failed builds.
func (r *Registry) RecordBuild(status string, duration time.Duration, variables int) {
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
	if variables > 0 {
		r.NetworkVariables.Set(float64(variables))
	}
}

// RecordTable records the row count of a built CPT
func (r *Registry) RecordTable(lazy bool, rows int) {
	mode := "eager"
	if lazy {
		mode = "lazy"
	}
	r.CPTRowsTotal.WithLabelValues(mode).Add(float64(rows))
}

// RecordQuery records an inference query
func (r *Registry) RecordQuery(status string, duration time.Duration, branches int) {
	r.QueriesTotal.WithLabelValues(status).Inc()
	r.QueryDuration.Observe(duration.Seconds())
	if branches > 0 {
		r.QueryBranches.Observe(float64(branches))
	}
}

// Snapshot gathers every metric into a flat, name-sorted list.
// Histograms are reported as their _count and _sum.
func (r *Registry) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := labelMap(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				samples = append(samples, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				samples = append(samples, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				samples = append(samples,
					Sample{Name: mf.GetName() + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
					Sample{Name: mf.GetName() + "_sum", Labels: labels, Value: h.GetSampleSum()},
				)
			}
		}
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.GetName()] = p.GetValue()
	}
	return out
}
