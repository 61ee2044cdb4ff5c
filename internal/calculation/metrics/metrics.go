package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the calculation module.
type Metrics struct {
	// Calculations by calculator and outcome (ok, invalid, invariant)
	Calculations *prometheus.CounterVec

	// Successful results by calculator and risk tier
	RiskLevels *prometheus.CounterVec

	// Pipeline latency per calculator
	Duration *prometheus.HistogramVec

	// Batch sizes as submitted
	BatchSize prometheus.Histogram

	// Registered calculators
	RegistrySize prometheus.Gauge

	// HTTP requests by route and response code
	Requests *prometheus.CounterVec
}

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeInvariant = "invariant"
	OutcomeError     = "error"
)

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers against reg, which lets tests use a private
// registry instead of colliding on the default one.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abacus_calculations_total",
			Help: "Total calculations by calculator and outcome",
		}, []string{"calculator", "outcome"}),

		RiskLevels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abacus_calculation_risk_levels_total",
			Help: "Successful calculations by calculator and risk tier",
		}, []string{"calculator", "risk_level"}),

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abacus_calculation_duration_seconds",
			Help:    "Duration of the validate, compute and analyze pipeline",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}, []string{"calculator"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "abacus_calculation_batch_size",
			Help:    "Number of items per batch request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),

		RegistrySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "abacus_registered_calculators",
			Help: "Number of calculators in the registry",
		}),

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abacus_http_requests_total",
			Help: "Calculator API requests by route and response code",
		}, []string{"route", "code"}),
	}
}

// ObserveCalculation records one pipeline run.
func (m *Metrics) ObserveCalculation(calculatorID, outcome string, d time.Duration) {
	if m != nil {
		m.Calculations.WithLabelValues(calculatorID, outcome).Inc()
		m.Duration.WithLabelValues(calculatorID).Observe(d.Seconds())
	}
}

// IncrementRiskLevel records the tier of a successful result.
func (m *Metrics) IncrementRiskLevel(calculatorID, level string) {
	if m != nil {
		m.RiskLevels.WithLabelValues(calculatorID, level).Inc()
	}
}

// ObserveBatchSize records the size of a batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// SetRegistrySize records how many calculators are registered.
func (m *Metrics) SetRegistrySize(n int) {
	if m != nil {
		m.RegistrySize.Set(float64(n))
	}
}

// IncrementRequest records one API request. code is "ok" or a domain error code.
func (m *Metrics) IncrementRequest(route, code string) {
	if m != nil {
		m.Requests.WithLabelValues(route, code).Inc()
	}
}
