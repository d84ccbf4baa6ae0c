package perf

import (
	"fmt"

	"github.com/speakeasy-api/lintperf/errors"
)

// ErrLimitExceeded is matched by every *LimitExceededError.
const ErrLimitExceeded errors.Error = "performance limit exceeded"

// LimitExceededError is returned by TrackOperation when an operation count passes its cap.
type LimitExceededError struct {
	Metric string
	Limit  int64
	Actual int64
}

var _ error = (*LimitExceededError)(nil)

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s%soperation %s count %d exceeds limit %d", ErrLimitExceeded, errors.ErrSeparator, e.Metric, e.Actual, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}
