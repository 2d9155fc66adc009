package errors

import (
	"errors"
	"fmt"
)

// InsufficientDataError is returned when a table has fewer rows than a
// calculation needs.
type InsufficientDataError struct {
	Required int
	Actual   int
	Symbol   string
	Message  string
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return NewInsufficientDataError(required, actual, symbol, fmt.Sprintf(format, args...))
}

func (e *InsufficientDataError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("insufficient data: need %d rows, got %d", e.Required, e.Actual)
}

// IsInsufficientDataError reports whether err's chain contains an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var target *InsufficientDataError

	return errors.As(err, &target)
}

// MissingColumnError is returned when an operation needs a column the table does not have.
type MissingColumnError struct {
	Column    string
	Operation string
}

// NewMissingColumnError creates a new MissingColumnError.
func NewMissingColumnError(column, operation string) *MissingColumnError {
	return &MissingColumnError{Column: column, Operation: operation}
}

func (e *MissingColumnError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("missing required column %q", e.Column)
	}

	return fmt.Sprintf("%s: missing required column %q", e.Operation, e.Column)
}

// IsMissingColumnError reports whether err's chain contains a MissingColumnError.
func IsMissingColumnError(err error) bool {
	var target *MissingColumnError

	return errors.As(err, &target)
}

// InvalidArgumentError is returned for out-of-range numeric arguments such as
// a non-positive window or a test fraction outside [0, 1).
type InvalidArgumentError struct {
	Argument string
	Value    any
	Message  string
}

// NewInvalidArgumentError creates a new InvalidArgumentError.
func NewInvalidArgumentError(argument string, value any, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Value: value, Message: message}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%v: %s", e.Argument, e.Value, e.Message)
}

// IsInvalidArgumentError reports whether err's chain contains an InvalidArgumentError.
func IsInvalidArgumentError(err error) bool {
	var target *InvalidArgumentError

	return errors.As(err, &target)
}
