// Package pointer provides utilities for working with optional values.
package pointer

// From will create a pointer to the provided value.
func From[T any](t T) *T {
	return &t
}

// Coalesce returns the first non-nil pointer, or nil when all are nil.
func Coalesce[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
