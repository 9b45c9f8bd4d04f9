package view

import (
	"errors"
	"fmt"
)

// Contract violations. They are raised as panics carrying a *ContractError:
// they signal a programming error in the caller, not a recoverable state.
var (
	// ErrInvalidFadDimension indicates a dynamic fad view whose derivative
	// size could not be determined.
	ErrInvalidFadDimension = errors.New("view: invalid fad dimension (0) supplied")

	// ErrDimensionMismatch indicates incompatible shapes on assignment or copy.
	ErrDimensionMismatch = errors.New("view: incompatible dimensions")

	// ErrSpanTooSmall indicates caller storage shorter than the view span.
	ErrSpanTooSmall = errors.New("view: storage shorter than span")

	// ErrSpaceMismatch indicates an assignment across memory spaces.
	ErrSpaceMismatch = errors.New("view: memory spaces differ")

	// ErrRankTooLarge indicates a shape with more axes than the mapping allows.
	ErrRankTooLarge = errors.New("view: rank too large")

	// ErrInvalidValue indicates an initial value that cannot be converted
	// to the element type.
	ErrInvalidValue = errors.New("view: invalid initial value")
)

// ContractError wraps a contract violation with the operation and view label.
type ContractError struct {
	Op      string
	Label   string
	Wrapped error
}

func (e *ContractError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Label, e.Wrapped)
}

func (e *ContractError) Unwrap() error {
	return e.Wrapped
}

func fatal(op, label string, err error) {
	panic(&ContractError{Op: op, Label: label, Wrapped: err})
}
