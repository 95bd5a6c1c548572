package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementResult(false, "department_ineligible")
	m.IncrementResult(false, "department_ineligible")
	m.IncrementResult(true, "")
	m.IncrementTransition("advance")
	m.IncrementRecovery("reset")
	m.ObserveEvaluateLatency(50 * time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Results.WithLabelValues("false", "department_ineligible")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Results.WithLabelValues("true", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("advance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries.WithLabelValues("reset")))

	count, err := testutil.GatherAndCount(reg, "fundsim_evaluate_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementResult(true, "")
		m.IncrementTransition("start")
		m.IncrementRecovery("reset")
		m.ObserveEvaluateLatency(time.Millisecond)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	}, "Each registry gets its own collectors")
}
