package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the simulation core.
type Metrics struct {
	// Determinations by outcome and reason
	Results *prometheus.CounterVec

	// State machine transitions by kind
	Transitions *prometheus.CounterVec

	// Stored sessions that needed repair on load, by kind
	Recoveries *prometheus.CounterVec

	// Rule orchestrator latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance registered on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Results: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fundsim_results_total",
			Help: "Total eligibility determinations by outcome and reason",
		}, []string{"eligible", "reason"}),

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fundsim_transitions_total",
			Help: "Total questionnaire transitions by kind",
		}, []string{"kind"}), // start, advance, early_exit, finish, back, reset

		Recoveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fundsim_session_recoveries_total",
			Help: "Total stored sessions repaired on load by kind",
		}, []string{"kind"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundsim_evaluate_duration_seconds",
			Help:    "Duration of rule evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}
}

// IncrementResult records a determination.
func (m *Metrics) IncrementResult(eligible bool, reason string) {
	if m != nil {
		m.Results.WithLabelValues(strconv.FormatBool(eligible), reason).Inc()
	}
}

// IncrementTransition records a state machine transition.
func (m *Metrics) IncrementTransition(kind string) {
	if m != nil {
		m.Transitions.WithLabelValues(kind).Inc()
	}
}

// IncrementRecovery records a repaired session.
func (m *Metrics) IncrementRecovery(kind string) {
	if m != nil {
		m.Recoveries.WithLabelValues(kind).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one rule evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
