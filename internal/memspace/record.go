package memspace

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

type freer interface {
	Name() string
	free(r *Record)
}

// Record is a shared allocation. Every view derived from one allocation
// holds a reference; the destroy hook runs when the last one is released.
type Record struct {
	label string
	size  int
	space freer

	words []uint64
	data  unsafe.Pointer

	refs        atomic.Int32
	destroy     func()
	initialized bool
}

func (r *Record) Label() string { return r.label }

// Size is the allocation size in bytes.
func (r *Record) Size() int { return r.size }

// SpaceName names the space the record was allocated from.
func (r *Record) SpaceName() string { return r.space.Name() }

// SameSpace reports whether r and o were allocated from the same space.
func (r *Record) SameSpace(o *Record) bool { return r.space == o.space }

// Data is the start of the allocation, nil for empty allocations.
func (r *Record) Data() unsafe.Pointer { return r.data }

// RefCount is the number of live references.
func (r *Record) RefCount() int { return int(r.refs.Load()) }

// SetDestroy registers the element destructor. It must be called before the
// record is shared.
func (r *Record) SetDestroy(fn func()) { r.destroy = fn }

// MarkInitialized records that element construction ran over the allocation.
func (r *Record) MarkInitialized() { r.initialized = true }

// Initialized reports whether elements were constructed.
func (r *Record) Initialized() bool { return r.initialized }

// Retain adds a reference. Retaining a released record panics.
func (r *Record) Retain() {
	if r.refs.Add(1) <= 1 {
		panic(fmt.Errorf("retain %q: %w", r.label, ErrReleased))
	}
}

// Release drops a reference and reports whether it was the last one.
func (r *Record) Release() bool {
	n := r.refs.Add(-1)
	switch {
	case n > 0:
		return false
	case n < 0:
		panic(fmt.Errorf("release %q: %w", r.label, ErrReleased))
	}
	if r.destroy != nil {
		r.destroy()
		r.destroy = nil
	}
	r.space.free(r)
	r.words = nil
	r.data = nil
	return true
}

// Slice reinterprets the allocation as n elements of T.
func Slice[T any](r *Record, n int) []T {
	if r == nil || r.data == nil || n == 0 {
		return nil
	}
	var zero T
	if need := n * int(unsafe.Sizeof(zero)); need > r.size {
		panic(fmt.Sprintf("memspace: %d bytes requested from %d byte record %q", need, r.size, r.label))
	}
	return unsafe.Slice((*T)(r.data), n)
}
