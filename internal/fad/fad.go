// Package fad describes the storage of forward-mode derivative-aware scalars.
//
// A fad element is one value followed by a fixed number of derivative
// components. Only storage is modelled here; arithmetic on fad values is left
// to the consumer.
package fad

import "fmt"

// Scalar is the underlying floating type of a fad element.
type Scalar interface {
	~float32 | ~float64
}

// Size fixes the derivative count of a fad type. A zero static size means the
// count is chosen when a view is allocated.
type Size interface {
	StaticSize() int
}

type (
	Dynamic  struct{}
	Static1  struct{}
	Static2  struct{}
	Static3  struct{}
	Static4  struct{}
	Static8  struct{}
	Static16 struct{}
	Static32 struct{}
)

func (Dynamic) StaticSize() int  { return 0 }
func (Static1) StaticSize() int  { return 1 }
func (Static2) StaticSize() int  { return 2 }
func (Static3) StaticSize() int  { return 3 }
func (Static4) StaticSize() int  { return 4 }
func (Static8) StaticSize() int  { return 8 }
func (Static16) StaticSize() int { return 16 }
func (Static32) StaticSize() int { return 32 }

// StaticSize returns the derivative count fixed by S, or 0 for Dynamic.
func StaticSize[S Size]() int {
	var s S
	return s.StaticSize()
}

// Value is a detached fad element.
type Value[T Scalar] struct {
	Val T
	Dx  []T
}

// NewValue returns a value with n zero derivative components.
func NewValue[T Scalar](val T, n int) Value[T] {
	return Value[T]{Val: val, Dx: make([]T, n)}
}

// Size is the number of derivative components.
func (v Value[T]) Size() int { return len(v.Dx) }

func (v Value[T]) String() string {
	return fmt.Sprintf("%v%v", v.Val, v.Dx)
}
