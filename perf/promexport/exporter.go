// Package promexport exposes finished performance sessions as Prometheus metrics.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/perf"
)

// ErrWriteTextfile is returned when the metrics textfile cannot be written.
const ErrWriteTextfile errors.Error = "failed to write metrics textfile"

const (
	namespace = "lintperf"

	ruleLabel      = "rule"
	operationLabel = "operation"
	phaseLabel     = "phase"
	dimensionLabel = "dimension"
)

// Budget dimensions reported by lintperf_budget_exceeded_total.
const (
	DimensionTime   = "time"
	DimensionNodes  = "nodes"
	DimensionMemory = "memory"
)

// Exporter is a perf.Observer that aggregates sessions into its own registry.
type Exporter struct {
	registry *prometheus.Registry

	ruleDuration   *prometheus.HistogramVec
	ruleNodes      *prometheus.CounterVec
	ruleOperations *prometheus.CounterVec
	budgetExceeded *prometheus.CounterVec
	phaseDuration  *prometheus.HistogramVec
}

var _ perf.Observer = (*Exporter)(nil)

// New creates an Exporter with its metrics registered on a fresh registry.
func New() *Exporter {
	buckets := prometheus.ExponentialBuckets(0.0005, 2, 14)

	e := &Exporter{
		registry: prometheus.NewRegistry(),

		ruleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rule",
			Name:      "duration_seconds",
			Help:      "Wall time of tracked rule invocations.",
			Buckets:   buckets,
		}, []string{ruleLabel}),

		ruleNodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rule",
			Name:      "nodes_total",
			Help:      "Nodes visited by tracked rule invocations.",
		}, []string{ruleLabel}),

		ruleOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rule",
			Name:      "operations_total",
			Help:      "Named operations counted by tracked rule invocations.",
		}, []string{ruleLabel, operationLabel}),

		budgetExceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "budget",
			Name:      "exceeded_total",
			Help:      "Rule invocations that went over a budget dimension.",
		}, []string{ruleLabel, dimensionLabel}),

		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "phase",
			Name:      "duration_seconds",
			Help:      "Accumulated time of named phases per rule invocation.",
			Buckets:   buckets,
		}, []string{ruleLabel, phaseLabel}),
	}

	e.registry.MustRegister(e.ruleDuration, e.ruleNodes, e.ruleOperations, e.budgetExceeded, e.phaseDuration)
	return e
}

// Registry returns the registry holding the exporter's metrics.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// ObserveSession records a finished session.
func (e *Exporter) ObserveSession(m *perf.Metrics) {
	if m == nil {
		return
	}
	rule := m.RuleName

	e.ruleDuration.WithLabelValues(rule).Observe(m.Duration.Seconds())
	e.ruleNodes.WithLabelValues(rule).Add(float64(m.NodeCount))

	for op, count := range m.OperationCounts {
		e.ruleOperations.WithLabelValues(rule, op).Add(float64(count))
	}
	for phase, d := range m.PhaseDurations {
		e.phaseDuration.WithLabelValues(rule, phase).Observe(d.Seconds())
	}

	if m.BudgetExceededBy > 0 {
		e.budgetExceeded.WithLabelValues(rule, DimensionTime).Inc()
	}
	if m.NodesExceededBy > 0 {
		e.budgetExceeded.WithLabelValues(rule, DimensionNodes).Inc()
	}
	if m.MemoryExceededBy > 0 {
		e.budgetExceeded.WithLabelValues(rule, DimensionMemory).Inc()
	}
}

// WriteTextfile writes the current metrics in the text exposition format, suitable for the
// node_exporter textfile collector. The file is replaced atomically.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return ErrWriteTextfile.Wrap(err)
	}
	return nil
}
