package view

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
	"k8s.io/klog/v2"
)

func makeDims(op, label string, dims []int, static []int, maxRank int) layout.Dims {
	if len(dims) > maxRank {
		fatal(op, label, fmt.Errorf("%w: %d axes, at most %d", ErrRankTooLarge, len(dims), maxRank))
	}
	return layout.MakeDims(dims...).Fix(static...)
}

// valueFunctor constructs and destroys the elements of one allocation.
type valueFunctor[T any] struct {
	space exec.Space
	data  []T
	init  T
}

func (f valueFunctor[T]) construct() {
	f.space.RangeFor(len(f.data), exec.DefaultChunk, func(begin, end int) {
		for i := begin; i < end; i++ {
			f.data[i] = f.init
		}
	})
}

func (f valueFunctor[T]) destroy() {
	f.space.RangeFor(len(f.data), exec.DefaultChunk, func(begin, end int) {
		clear(f.data[begin:end])
	})
}

func initValue[T any](op, label string, p ctorProps) T {
	var init T
	if p.value == nil {
		return init
	}
	if v, ok := p.value.(T); ok {
		return v
	}
	v, ok := convertNumber[T](p.value)
	if !ok {
		fatal(op, label, fmt.Errorf("%w: %T for element type %T", ErrInvalidValue, p.value, init))
	}
	return v
}

// convertNumber converts an integer or floating point x to a numeric T.
// Untyped constants passed to WithValue arrive as int or float64.
func convertNumber[T any](x any) (T, bool) {
	var out T
	src := reflect.ValueOf(x)
	dst := reflect.TypeFor[T]()
	if !numericKind(src.Kind()) || !numericKind(dst.Kind()) {
		return out, false
	}
	return src.Convert(dst).Interface().(T), true
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// allocate requests span elements of T from the memory space and, when
// asked to, constructs them. Empty spans allocate an empty record and
// construct nothing.
func allocate[T any](op, label string, p ctorProps, span int, init T) ([]T, *memspace.Record, error) {
	var zero T
	bytes := span * int(unsafe.Sizeof(zero))

	rec, err := p.space.Allocate(label, bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %q: %w", op, label, err)
	}
	if bytes == 0 {
		return nil, rec, nil
	}

	data := memspace.Slice[T](rec, span)
	if p.initialize {
		f := valueFunctor[T]{space: p.exec, data: data, init: init}
		rec.SetDestroy(f.destroy)
		f.construct()
		rec.MarkInitialized()
	}

	klog.V(5).InfoS("constructed view", "op", op, "label", label, "span", span, "initialized", p.initialize, "exec", p.exec.Name())
	return data, rec, nil
}

// fadMapping is the internal addressing of a fad view: public axes plus one
// derivative axis of extent size+1.
type fadMapping struct {
	full      layout.Offset
	public    layout.Offset
	fadAxis   int
	fadSize   int
	fadStride int
}

func newFadMapping(op, label string, kind layout.Kind, contiguous bool, d layout.Dims, scalarDim int, strides []int) fadMapping {
	rank := d.Rank()
	var full layout.Offset
	fadAxis := rank

	switch {
	case kind == layout.Left && contiguous:
		full = layout.NewOffset(layout.Left, d.Prepend(scalarDim), nil)
		fadAxis = 0
	case kind == layout.Stride && len(strides) == rank && rank > 0:
		// Element strides: derivative slots of one element stay adjacent.
		slots := make([]int, rank+1)
		for i, s := range strides {
			slots[i] = s * scalarDim
		}
		slots[rank] = 1
		full = layout.NewOffset(layout.Stride, d.Append(scalarDim), slots)
	case kind == layout.Stride && len(strides) != 0 && len(strides) != rank+1:
		fatal(op, label, fmt.Errorf("%w: %d strides for rank %d fad view", ErrDimensionMismatch, len(strides), rank))
	default:
		full = layout.NewOffset(kind, d.Append(scalarDim), strides)
	}

	return fadMapping{
		full:      full,
		public:    layout.Drop(full, fadAxis),
		fadAxis:   fadAxis,
		fadSize:   scalarDim - 1,
		fadStride: full.Stride(fadAxis),
	}
}

// sub restricts the public axes and keeps the whole derivative axis.
func (m fadMapping) sub(slices []layout.Slice) (fadMapping, int) {
	public, base := layout.Sub(m.public, slices...)
	fadAxis := public.Rank()
	var full layout.Offset
	if m.fadAxis == 0 {
		fadAxis = 0
		full = layout.Prepend(public, m.fadSize+1, m.fadStride)
	} else {
		full = layout.Append(public, m.fadSize+1, m.fadStride)
	}
	return fadMapping{
		full:      full,
		public:    public,
		fadAxis:   fadAxis,
		fadSize:   m.fadSize,
		fadStride: m.fadStride,
	}, base
}

// span is one past the last reachable slot.
func (m fadMapping) span() int {
	if m.full == nil {
		return 0
	}
	return m.full.Span()
}

// scalarDimension resolves the extent of the derivative axis for a fad view
// with static size S. Static sizes win; otherwise sibling views, then an
// explicit derivative count.
func scalarDimension[S fad.Size](p ctorProps) int {
	if n := fad.StaticSize[S](); n > 0 {
		return n + 1
	}
	if p.hasAllocProp && p.allocProp.IsView && p.allocProp.DerivativeSize > 0 {
		return p.allocProp.DerivativeSize + 1
	}
	if p.hasDerivs && p.derivatives >= 0 {
		return p.derivatives + 1
	}
	return 0
}
