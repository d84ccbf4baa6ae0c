package perf_test

import (
	"math"
	"testing"

	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBudget_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget *perf.Budget
	}{
		{
			name:   "nil budget",
			budget: nil,
		},
		{
			name:   "empty budget",
			budget: &perf.Budget{},
		},
		{
			name: "all limits set",
			budget: &perf.Budget{
				MaxTime:       pointer.From(100.0),
				MaxMemory:     pointer.From(int64(64 << 20)),
				MaxNodes:      pointer.From(int64(5000)),
				LogMetrics:    true,
				MaxOperations: map[string]int64{"signalAccess": 10, "scopeLookup": 0},
			},
		},
		{
			name: "zero limits are allowed",
			budget: &perf.Budget{
				MaxTime:  pointer.From(0.0),
				MaxNodes: pointer.From(int64(0)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := perf.ValidateBudget(tt.budget)
			assert.True(t, res.Valid)
			assert.Empty(t, res.Errors)
		})
	}
}

func TestValidateBudget_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		budget   *perf.Budget
		expected []string
	}{
		{
			name:     "negative time",
			budget:   &perf.Budget{MaxTime: pointer.From(-1.0)},
			expected: []string{"max_time must be >= 0, got -1"},
		},
		{
			name:     "infinite time",
			budget:   &perf.Budget{MaxTime: pointer.From(math.Inf(1))},
			expected: []string{"max_time must be a finite number, got +Inf"},
		},
		{
			name:     "NaN time",
			budget:   &perf.Budget{MaxTime: pointer.From(math.NaN())},
			expected: []string{"max_time must be a finite number, got NaN"},
		},
		{
			name: "negative memory and nodes",
			budget: &perf.Budget{
				MaxMemory: pointer.From(int64(-5)),
				MaxNodes:  pointer.From(int64(-2)),
			},
			expected: []string{
				"max_memory must be >= 0, got -5",
				"max_nodes must be >= 0, got -2",
			},
		},
		{
			name: "bad operation caps",
			budget: &perf.Budget{
				MaxOperations: map[string]int64{"": 1, "b": -1, "a": 3},
			},
			expected: []string{
				"max_operations contains an empty operation name",
				"max_operations.b must be >= 0, got -1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := perf.ValidateBudget(tt.budget)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.expected, res.Errors)
		})
	}
}

func TestBudget_Merge_Success(t *testing.T) {
	t.Parallel()

	base := &perf.Budget{
		MaxTime:       pointer.From(100.0),
		MaxNodes:      pointer.From(int64(1000)),
		LogMetrics:    true,
		MaxOperations: map[string]int64{"signalAccess": 10, "scopeLookup": 50},
	}
	override := &perf.Budget{
		MaxTime:       pointer.From(20.0),
		MaxMemory:     pointer.From(int64(2048)),
		EnableMetrics: true,
		MaxOperations: map[string]int64{"signalAccess": 2},
	}

	merged := base.Merge(override)
	require.NotNil(t, merged)

	maxTime, ok := merged.TimeLimit()
	require.True(t, ok)
	assert.InDelta(t, 20.0, maxTime, 0)

	maxNodes, ok := merged.NodeLimit()
	require.True(t, ok)
	assert.Equal(t, int64(1000), maxNodes)

	maxMemory, ok := merged.MemoryLimit()
	require.True(t, ok)
	assert.Equal(t, int64(2048), maxMemory)

	assert.True(t, merged.LogMetrics)
	assert.True(t, merged.EnableMetrics)
	assert.Equal(t, map[string]int64{"signalAccess": 2, "scopeLookup": 50}, merged.MaxOperations)

	// inputs are untouched
	assert.Equal(t, int64(10), base.MaxOperations["signalAccess"])
	assert.InDelta(t, 100.0, *base.MaxTime, 0)
}

func TestBudget_Merge_Nil(t *testing.T) {
	t.Parallel()

	var nilBudget *perf.Budget
	assert.Nil(t, nilBudget.Merge(nil))

	only := &perf.Budget{MaxNodes: pointer.From(int64(3))}
	fromNil := nilBudget.Merge(only)
	require.NotNil(t, fromNil)
	assert.Equal(t, int64(3), *fromNil.MaxNodes)
	assert.NotSame(t, only.MaxNodes, fromNil.MaxNodes, "merge should copy limits")

	toNil := only.Merge(nil)
	require.NotNil(t, toNil)
	assert.Equal(t, int64(3), *toNil.MaxNodes)
}

func TestBudget_Limits_NilBudget(t *testing.T) {
	t.Parallel()

	var b *perf.Budget

	_, ok := b.TimeLimit()
	assert.False(t, ok)
	_, ok = b.MemoryLimit()
	assert.False(t, ok)
	_, ok = b.NodeLimit()
	assert.False(t, ok)
	_, ok = b.OperationLimit("signalAccess")
	assert.False(t, ok)
}
