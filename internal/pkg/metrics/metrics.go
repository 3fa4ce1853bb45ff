package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salary_engine"

// Metrics holds the engine's prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	salariesCalculated  prometheus.Counter
	calculationDuration prometheus.Histogram
	configurationGaps   *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	payrollEmployees    prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		salariesCalculated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "salaries_calculated_total",
			Help:      "Number of salary calculations committed.",
		}),
		calculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "salary_calculation_duration_seconds",
			Help:      "Time spent computing and persisting one salary.",
			Buckets:   prometheus.DefBuckets,
		}),
		configurationGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configuration_gaps_total",
			Help:      "Active components that produced no amount because of missing configuration.",
		}, []string{"component_code"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Committed lifecycle transitions.",
		}, []string{"entity", "action"}),
		rejectedTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_transitions_total",
			Help:      "Lifecycle operations refused by the current status.",
		}, []string{"entity", "action", "status"}),
		payrollEmployees: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payroll_employees",
			Help:      "Salary records aggregated per payroll calculation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.salariesCalculated,
		m.calculationDuration,
		m.configurationGaps,
		m.transitions,
		m.rejectedTransitions,
		m.payrollEmployees,
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) SalaryCalculated(took time.Duration) {
	if m == nil {
		return
	}
	m.salariesCalculated.Inc()
	m.calculationDuration.Observe(took.Seconds())
}

func (m *Metrics) ConfigurationGap(componentCode string) {
	if m == nil {
		return
	}
	m.configurationGaps.WithLabelValues(componentCode).Inc()
}

func (m *Metrics) Transition(entity, action string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, action).Inc()
}

func (m *Metrics) TransitionRejected(entity, action, status string) {
	if m == nil {
		return
	}
	m.rejectedTransitions.WithLabelValues(entity, action, status).Inc()
}

func (m *Metrics) PayrollCalculated(employees int) {
	if m == nil {
		return
	}
	m.payrollEmployees.Observe(float64(employees))
}
