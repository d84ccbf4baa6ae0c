package perf

import (
	"fmt"
	"maps"
	"math"
	"sort"

	"github.com/speakeasy-api/lintperf/pointer"
)

// Budget is the set of limits a session is checked against. Unset limits are not enforced.
type Budget struct {
	// MaxTime is the maximum session duration in milliseconds.
	MaxTime *float64 `yaml:"max_time,omitempty" json:"max_time,omitempty"`

	// MaxMemory is the maximum heap usage in bytes at the end of the session.
	MaxMemory *int64 `yaml:"max_memory,omitempty" json:"max_memory,omitempty"`

	// MaxNodes is the maximum number of visited nodes.
	MaxNodes *int64 `yaml:"max_nodes,omitempty" json:"max_nodes,omitempty"`

	// EnableMetrics signals the caller manages phases itself. When false a "total" phase is
	// opened automatically at session start.
	EnableMetrics bool `yaml:"enable_metrics,omitempty" json:"enable_metrics,omitempty"`

	// LogMetrics logs budget violations and a summary when the session stops.
	LogMetrics bool `yaml:"log_metrics,omitempty" json:"log_metrics,omitempty"`

	// MaxOperations caps named operation counts. Operation names are open ended.
	MaxOperations map[string]int64 `yaml:"max_operations,omitempty" json:"max_operations,omitempty"`
}

// TimeLimit returns the configured time limit in milliseconds.
func (b *Budget) TimeLimit() (float64, bool) {
	if b == nil || b.MaxTime == nil {
		return 0, false
	}
	return *b.MaxTime, true
}

// MemoryLimit returns the configured heap limit in bytes.
func (b *Budget) MemoryLimit() (int64, bool) {
	if b == nil || b.MaxMemory == nil {
		return 0, false
	}
	return *b.MaxMemory, true
}

// NodeLimit returns the configured node limit.
func (b *Budget) NodeLimit() (int64, bool) {
	if b == nil || b.MaxNodes == nil {
		return 0, false
	}
	return *b.MaxNodes, true
}

// OperationLimit returns the cap for the named operation.
func (b *Budget) OperationLimit(name string) (int64, bool) {
	if b == nil || b.MaxOperations == nil {
		return 0, false
	}
	limit, ok := b.MaxOperations[name]
	return limit, ok
}

// Merge returns a new budget with the limits set in override layered over b. Boolean flags
// are enabled when either budget enables them.
func (b *Budget) Merge(override *Budget) *Budget {
	if b == nil && override == nil {
		return nil
	}
	if b == nil {
		return override.Clone()
	}
	if override == nil {
		return b.Clone()
	}

	merged := &Budget{
		MaxTime:       pointer.Coalesce(override.MaxTime, b.MaxTime),
		MaxMemory:     pointer.Coalesce(override.MaxMemory, b.MaxMemory),
		MaxNodes:      pointer.Coalesce(override.MaxNodes, b.MaxNodes),
		EnableMetrics: b.EnableMetrics || override.EnableMetrics,
		LogMetrics:    b.LogMetrics || override.LogMetrics,
	}

	if len(b.MaxOperations) > 0 || len(override.MaxOperations) > 0 {
		merged.MaxOperations = make(map[string]int64, len(b.MaxOperations)+len(override.MaxOperations))
		maps.Copy(merged.MaxOperations, b.MaxOperations)
		maps.Copy(merged.MaxOperations, override.MaxOperations)
	}

	return merged
}

// Clone returns a deep copy of the budget.
func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}

	c := &Budget{
		EnableMetrics: b.EnableMetrics,
		LogMetrics:    b.LogMetrics,
	}
	if b.MaxTime != nil {
		c.MaxTime = pointer.From(*b.MaxTime)
	}
	if b.MaxMemory != nil {
		c.MaxMemory = pointer.From(*b.MaxMemory)
	}
	if b.MaxNodes != nil {
		c.MaxNodes = pointer.From(*b.MaxNodes)
	}
	if b.MaxOperations != nil {
		c.MaxOperations = maps.Clone(b.MaxOperations)
	}
	return c
}

// ValidationResult is the outcome of ValidateBudget.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateBudget sanity checks a budget. It never fails: problems are returned as messages and
// callers are expected to log them and carry on with the budget as supplied. A nil budget is
// valid.
func ValidateBudget(b *Budget) ValidationResult {
	var errs []string

	if b != nil {
		if b.MaxTime != nil {
			v := *b.MaxTime
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				errs = append(errs, fmt.Sprintf("max_time must be a finite number, got %v", v))
			case v < 0:
				errs = append(errs, fmt.Sprintf("max_time must be >= 0, got %v", v))
			}
		}
		if b.MaxMemory != nil && *b.MaxMemory < 0 {
			errs = append(errs, fmt.Sprintf("max_memory must be >= 0, got %d", *b.MaxMemory))
		}
		if b.MaxNodes != nil && *b.MaxNodes < 0 {
			errs = append(errs, fmt.Sprintf("max_nodes must be >= 0, got %d", *b.MaxNodes))
		}

		names := make([]string, 0, len(b.MaxOperations))
		for name := range b.MaxOperations {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if name == "" {
				errs = append(errs, "max_operations contains an empty operation name")
				continue
			}
			if limit := b.MaxOperations[name]; limit < 0 {
				errs = append(errs, fmt.Sprintf("max_operations.%s must be >= 0, got %d", name, limit))
			}
		}
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
