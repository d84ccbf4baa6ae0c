package validation

import (
	"cmp"
	"errors"
	"slices"
)

// SortValidationErrors orders diagnostics for display: findings about the source by position,
// then performance diagnostics, then errors that are not diagnostics in their original order.
// The sort is stable.
func SortValidationErrors(allErrors []error) {
	if len(allErrors) == 0 {
		return
	}

	diags := make([]*Error, 0, len(allErrors))
	var others []error
	for _, err := range allErrors {
		var vErr *Error
		if errors.As(err, &vErr) {
			diags = append(diags, vErr)
		} else {
			others = append(others, err)
		}
	}

	slices.SortStableFunc(diags, compareValidationErrors)

	n := 0
	for _, d := range diags {
		allErrors[n] = d
		n++
	}
	copy(allErrors[n:], others)
}

func compareValidationErrors(a, b *Error) int {
	return cmp.Or(
		cmp.Compare(kindRank(a), kindRank(b)),
		cmp.Compare(a.DocumentLocation, b.DocumentLocation),
		cmp.Compare(a.GetLineNumber(), b.GetLineNumber()),
		cmp.Compare(a.GetColumnNumber(), b.GetColumnNumber()),
		cmp.Compare(a.Severity.rank(), b.Severity.rank()),
		cmp.Compare(a.Rule, b.Rule),
		cmp.Compare(a.Message(), b.Message()),
	)
}

func kindRank(e *Error) int {
	if e.IsPerformance() {
		return 1
	}
	return 0
}
