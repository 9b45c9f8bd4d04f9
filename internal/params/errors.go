package params

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is wrapped by every *ParseError.
	ErrParse = errors.New("params: parse failure")

	// ErrNotFound indicates a lookup of a missing key.
	ErrNotFound = errors.New("params: no such parameter")

	// ErrWrongType indicates a lookup whose requested type differs from the
	// stored entry.
	ErrWrongType = errors.New("params: parameter has a different type")

	// ErrInvalidUTF8 indicates a key or string that YAML cannot carry.
	ErrInvalidUTF8 = errors.New("params: invalid UTF-8")
)

// ParseError describes malformed input. Line and Column are 1-based and zero
// when unknown.
type ParseError struct {
	Source string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Source
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
	}
	return fmt.Sprintf("params: %s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}
