package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveCalculation("bmi", OutcomeOK, time.Millisecond)
	m.ObserveCalculation("bmi", OutcomeOK, time.Millisecond)
	m.ObserveCalculation("bmi", OutcomeInvalid, time.Millisecond)
	m.IncrementRiskLevel("bmi", "Low")
	m.SetRegistrySize(15)
	m.IncrementRequest("calculate", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("bmi", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues("bmi", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RiskLevels.WithLabelValues("bmi", "Low")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.RegistrySize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("calculate", "ok")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("bmi", OutcomeOK, time.Millisecond)
		m.IncrementRiskLevel("bmi", "Low")
		m.ObserveBatchSize(3)
		m.SetRegistrySize(1)
		m.IncrementRequest("calculate", "ok")
	})
}
