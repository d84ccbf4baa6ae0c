package perf

import (
	"maps"
	"time"
)

// Metrics is the record of one tracking session. It is mutable while the session is live and
// returned finalized by Tracker.Stop.
type Metrics struct {
	SessionKey string `json:"session_key"`
	RuleName   string `json:"rule"`
	FilePath   string `json:"file"`

	StartTime time.Time `json:"start_time"`
	// EndTime and Duration are only populated by Stop.
	EndTime  time.Time     `json:"end_time,omitzero"`
	Duration time.Duration `json:"duration"`

	NodeCount       int64            `json:"node_count"`
	OperationCounts map[string]int64 `json:"operation_counts,omitempty"`

	MemoryAtStart MemoryStats  `json:"memory_at_start"`
	MemoryAtStop  *MemoryStats `json:"memory_at_stop,omitempty"`

	// PhaseDurations accumulates across repeated open/close cycles of a phase name.
	PhaseDurations map[string]time.Duration `json:"phase_durations,omitempty"`
	CustomMetrics  map[string]any           `json:"custom_metrics,omitempty"`

	Budget *Budget `json:"budget,omitempty"`

	ExceededBudget bool `json:"exceeded_budget"`
	// BudgetExceededBy is the time overage in milliseconds.
	BudgetExceededBy float64 `json:"budget_exceeded_by"`
	// NodesExceededBy is NodeCount - MaxNodes, computed when the session stops.
	NodesExceededBy int64 `json:"nodes_exceeded_by,omitempty"`
	// MemoryExceededBy is heap usage over MaxMemory in bytes, computed when the session stops.
	MemoryExceededBy int64 `json:"memory_exceeded_by,omitempty"`
}

// DurationMillis returns the session duration in milliseconds.
func (m *Metrics) DurationMillis() float64 {
	return millis(m.Duration)
}

// MemoryDelta returns the heap growth between start and stop in bytes.
func (m *Metrics) MemoryDelta() int64 {
	if m.MemoryAtStop == nil {
		return 0
	}
	return int64(m.MemoryAtStop.HeapUsed) - int64(m.MemoryAtStart.HeapUsed)
}

// Stopped reports whether the record has been finalized.
func (m *Metrics) Stopped() bool {
	return !m.EndTime.IsZero()
}

func (m *Metrics) clone() Metrics {
	c := *m
	c.OperationCounts = maps.Clone(m.OperationCounts)
	c.PhaseDurations = maps.Clone(m.PhaseDurations)
	c.CustomMetrics = maps.Clone(m.CustomMetrics)
	c.Budget = m.Budget.Clone()
	if m.MemoryAtStop != nil {
		stop := *m.MemoryAtStop
		c.MemoryAtStop = &stop
	}
	return c
}
