package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, m.Track("dashboard:warmup").End(nil))
	err := errors.New("boom")
	assert.Equal(t, err, m.Track("dashboard:warmup").End(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("dashboard:warmup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("dashboard:warmup", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("dashboard:warmup")))
}

func TestWarmedStatesGauge(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetWarmedStates(42)
	m.SetWarmedStates(-1)
	assert.Equal(t, 42.0, testutil.ToFloat64(m.warmed))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.SetWarmedStates(3)
	assert.NoError(t, m.Track("x").End(nil))
}
