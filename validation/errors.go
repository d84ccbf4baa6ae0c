package validation

import (
	"errors"
	"fmt"
)

// Severity is the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

func (s Severity) String() string {
	return string(s)
}

// rank orders severities from most to least severe.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityHint:
		return 2
	default:
		return 3
	}
}

// ParseSeverity converts a string to a Severity, defaulting to SeverityError for unknown values.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityWarning:
		return SeverityWarning
	case SeverityHint:
		return SeverityHint
	default:
		return SeverityError
	}
}

// Kind separates diagnostics about the linted source from metadata about the lint run itself.
type Kind string

const (
	// KindViolation is a finding about the linted source.
	KindViolation Kind = "violation"
	// KindPerformance is a synthetic report about how a rule performed.
	KindPerformance Kind = "performance"
)

// Error represents a diagnostic and the line and column where it occurred
type Error struct {
	UnderlyingError  error
	Line             int
	Column           int
	Severity         Severity
	Rule             string
	Kind             Kind
	DocumentLocation string
}

var _ error = (*Error)(nil)

// NewValidationError creates a violation diagnostic at the given position.
func NewValidationError(severity Severity, rule string, err error, line, column int) *Error {
	return &Error{
		UnderlyingError: err,
		Line:            line,
		Column:          column,
		Severity:        severity,
		Rule:            rule,
		Kind:            KindViolation,
	}
}

// NewPerformanceError creates a performance diagnostic. It is always anchored at the start of
// the document as it describes the lint run rather than the source.
func NewPerformanceError(severity Severity, rule, documentLocation, message string) *Error {
	return &Error{
		UnderlyingError:  errors.New(message),
		Line:             1,
		Column:           1,
		Severity:         severity,
		Rule:             rule,
		Kind:             KindPerformance,
		DocumentLocation: documentLocation,
	}
}

func (e Error) Error() string {
	msg := ""
	if e.UnderlyingError != nil {
		msg = e.UnderlyingError.Error()
	}
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, msg)
}

func (e Error) Unwrap() error {
	return e.UnderlyingError
}

// IsPerformance reports whether the diagnostic describes the lint run rather than the source.
func (e Error) IsPerformance() bool {
	return e.Kind == KindPerformance
}

func (e Error) GetLineNumber() int {
	return e.Line
}

func (e Error) GetColumnNumber() int {
	return e.Column
}

// Message returns the underlying message without position information.
func (e Error) Message() string {
	if e.UnderlyingError == nil {
		return ""
	}
	return e.UnderlyingError.Error()
}
