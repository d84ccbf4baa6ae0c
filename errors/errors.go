package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSeparator is placed between the message of an Error and the cause it wraps.
const ErrSeparator = " -- "

// Error provides a string based error type allowing the definition of const errors in packages.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target is the same Error or an Error wrapping a cause.
func (s Error) Is(target error) bool {
	if target == nil {
		return false
	}
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+ErrSeparator)
}

// Wrap returns an error that carries err as the cause of this Error.
func (s Error) Wrap(err error) error {
	return wrappedError{cause: err, msg: string(s)}
}

// Wrapf is Wrap with a formatted cause.
func (s Error) Wrapf(format string, args ...any) error {
	return wrappedError{cause: fmt.Errorf(format, args...), msg: string(s)}
}

type wrappedError struct {
	cause error
	msg   string
}

func (w wrappedError) Error() string {
	if w.cause != nil {
		return w.msg + ErrSeparator + w.cause.Error()
	}
	return w.msg
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// The below are just wrappers as we are stealing the namespace of the errors package

// Is checks if err is equivalent to target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns a new error with the specified message.
func New(message string) error {
	return errors.New(message)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// JoinedErrors is implemented by errors produced by Join.
type JoinedErrors interface {
	Unwrap() []error
}

// UnwrapErrors flattens a joined error into its parts.
func UnwrapErrors(err error) []error {
	if err == nil {
		return nil
	}

	if je, ok := err.(JoinedErrors); ok {
		return je.Unwrap()
	}
	return []error{err}
}
