package errors_test

import (
	"fmt"
	"testing"

	"github.com/speakeasy-api/lintperf/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errBudget errors.Error = "budget exceeded"

func TestError_Is_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   error
		expected bool
	}{
		{
			name:     "exact match",
			target:   errors.Error("budget exceeded"),
			expected: true,
		},
		{
			name:     "wrapped message with separator",
			target:   errors.New("budget exceeded -- maxTime"),
			expected: true,
		},
		{
			name:     "prefix without separator",
			target:   errors.New("budget exceeded twice"),
			expected: false,
		},
		{
			name:     "nil target",
			target:   nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, errBudget.Is(tt.target))
		})
	}
}

func TestError_Wrap_Success(t *testing.T) {
	t.Parallel()

	cause := errors.New("node count 12 > 10")
	wrapped := errBudget.Wrap(cause)

	assert.Equal(t, "budget exceeded -- node count 12 > 10", wrapped.Error())
	require.ErrorIs(t, wrapped, errBudget)
	require.ErrorIs(t, wrapped, cause)

	assert.Equal(t, "budget exceeded", errBudget.Wrap(nil).Error())
}

func TestError_Wrapf_Success(t *testing.T) {
	t.Parallel()

	wrapped := errBudget.Wrapf("rule %s", "signals-no-value")
	assert.Equal(t, "budget exceeded -- rule signals-no-value", wrapped.Error())
	assert.True(t, errors.Is(fmt.Errorf("outer: %w", wrapped), errBudget))
}

func TestUnwrapErrors_Success(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	assert.Equal(t, []error{err1, err2}, errors.UnwrapErrors(errors.Join(err1, err2)))
	assert.Equal(t, []error{err1}, errors.UnwrapErrors(err1))
	assert.Nil(t, errors.UnwrapErrors(nil))
}
