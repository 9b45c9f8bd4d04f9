package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrRankMismatch indicates an index tuple whose arity differs from the rank.
	ErrRankMismatch = errors.New("layout: index arity does not match rank")

	// ErrIndexOutOfRange indicates an index outside an axis extent.
	ErrIndexOutOfRange = errors.New("layout: index out of range")
)

// BoundsError reports the offending axis of an out-of-range index.
type BoundsError struct {
	Axis   int
	Index  int
	Extent int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("layout: index %d out of range [0,%d) on axis %d", e.Index, e.Extent, e.Axis)
}

func (e *BoundsError) Unwrap() error { return ErrIndexOutOfRange }
