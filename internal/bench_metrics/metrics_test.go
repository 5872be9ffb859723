package bench_metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRun(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.ObserveRun("concurrent", 4, 10, 123.5, 20*time.Millisecond, 0)
	m.ObserveRun("concurrent", 4, 10, 150, 10*time.Millisecond, 7)

	assert.Equal(t, 150.0, testutil.ToFloat64(m.throughput.WithLabelValues("concurrent", "4", "10")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("concurrent", statusOK)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dropped.WithLabelValues("concurrent")))
}

func TestMetrics_ObserveFailure(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.ObserveFailure("independent", 2, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("independent", statusFailed)))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	m.ObserveRun("independent", 1, 1, 10, time.Millisecond, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "partition_throughput_mtps")
}
