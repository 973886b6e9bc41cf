package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r.BuildsTotal)
	require.NotNil(t, r.QueriesTotal)
	require.NotNil(t, r.GetPrometheusRegistry())

	// Two registries never collide on registration
	assert.NotPanics(t, func() { NewRegistry() })
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild("success", 2*time.Millisecond, 9)
	r.RecordBuild("error", time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.BuildsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BuildsTotal.WithLabelValues("error")))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.NetworkVariables))
}

func TestRecordTable(t *testing.T) {
	r := NewRegistry()
	r.RecordTable(false, 8)
	r.RecordTable(false, 2)
	r.RecordTable(true, 4096)

	assert.Equal(t, 10.0, testutil.ToFloat64(r.CPTRowsTotal.WithLabelValues("eager")))
	assert.Equal(t, 4096.0, testutil.ToFloat64(r.CPTRowsTotal.WithLabelValues("lazy")))
}

func TestRecordQuery(t *testing.T) {
	r := NewRegistry()
	r.RecordQuery("success", time.Millisecond, 3)
	r.RecordQuery("zero_evidence", time.Millisecond, 2)
	r.RecordQuery("invalid", 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.QueriesTotal.WithLabelValues("success")))
	assert.Equal(t, 3, testutil.CollectAndCount(r.QueriesTotal))
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild("success", time.Millisecond, 9)
	r.RecordQuery("success", time.Millisecond, 3)

	samples, err := r.Snapshot()
	require.NoError(t, err)

	byName := make(map[string]Sample)
	for _, s := range samples {
		byName[s.Name] = s
	}

	assert.Equal(t, 9.0, byName["stormnet_network_variables"].Value)
	assert.Equal(t, 1.0, byName["stormnet_query_branches_count"].Value)
	assert.Equal(t, 3.0, byName["stormnet_query_branches_sum"].Value)
	assert.Equal(t, map[string]string{"status": "success"}, byName["stormnet_queries_total"].Labels)

	for i := 1; i < len(samples); i++ {
		assert.LessOrEqual(t, samples[i-1].Name, samples[i].Name)
	}
}
