package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every precondition failure of Optimize.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyDemand indicates the cut list has no rows.
	ErrEmptyDemand = errors.New("empty demand")

	// ErrPieceTooLong indicates a piece longer than the longest purchasable bar.
	ErrPieceTooLong = errors.New("piece too long")

	// ErrInvalidRange indicates a minimum stock length above the maximum.
	ErrInvalidRange = errors.New("invalid stock length range")

	// ErrInvalidConfig indicates a stock setting outside its allowed range.
	ErrInvalidConfig = errors.New("invalid stock config")

	// ErrInvalidDemand indicates a demand or inventory row with a non-positive value.
	ErrInvalidDemand = errors.New("invalid row")
)

// ValidationError is returned when an optimization request is rejected before
// any packing work starts. It matches both its kind and ErrValidation with errors.Is.
type ValidationError struct {
	Kind    error
	Message string
}

func newValidationError(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	return []error{e.Kind, ErrValidation}
}
