package view

import (
	"fmt"

	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
)

// FadView is a view of derivative-aware scalars. Each element occupies
// DerivativeSize()+1 slots of T along a hidden derivative axis; the public
// axes are those passed at construction.
type FadView[T fad.Scalar, L layout.Policy, S fad.Size] struct {
	label  string
	data   []T
	m      fadMapping
	record *memspace.Record
	exec   exec.Space
}

// NewFad allocates a fad view. For a Dynamic size the derivative count comes
// from Like or WithDerivatives; a view whose count cannot be determined
// panics with ErrInvalidFadDimension.
func NewFad[T fad.Scalar, L layout.Policy, S fad.Size](label string, dims []int, opts ...Option) (FadView[T, L, S], error) {
	p := newProps(opts)
	m := buildFadMapping[L, S]("allocate", label, dims, p)

	data, rec, err := allocate[T]("allocate", label, p, m.span(), 0)
	if err != nil {
		return FadView[T, L, S]{}, err
	}
	v := FadView[T, L, S]{label: label, data: data, m: m, record: rec, exec: p.exec}
	if p.initialize && p.value != nil {
		v.FillValue(initFad[T]("allocate", label, p, m.fadSize))
	}
	return v, nil
}

// WrapFad builds an unmanaged fad view over caller storage.
func WrapFad[T fad.Scalar, L layout.Policy, S fad.Size](data []T, dims []int, opts ...Option) FadView[T, L, S] {
	p := newProps(opts)
	m := buildFadMapping[L, S]("wrap", "", dims, p)
	if len(data) < m.span() {
		fatal("wrap", "", fmt.Errorf("%w: %d slots for span %d", ErrSpanTooSmall, len(data), m.span()))
	}
	return FadView[T, L, S]{data: data[:m.span()], m: m, exec: p.exec}
}

func buildFadMapping[L layout.Policy, S fad.Size](op, label string, dims []int, p ctorProps) fadMapping {
	// One axis is reserved for the derivative dimension.
	d := makeDims(op, label, dims, p.static, layout.MaxRank-1)
	scalarDim := scalarDimension[S](p)
	if scalarDim == 0 {
		fatal(op, label, ErrInvalidFadDimension)
	}
	return newFadMapping(op, label, layout.KindOf[L](), layout.IsContiguous[L](), d, scalarDim, p.strides)
}

func initFad[T fad.Scalar](op, label string, p ctorProps, size int) fad.Value[T] {
	switch v := p.value.(type) {
	case T:
		return fad.NewValue(v, size)
	case fad.Value[T]:
		return v
	}
	if x, ok := convertNumber[T](p.value); ok {
		return fad.NewValue(x, size)
	}
	fatal(op, label, fmt.Errorf("%w: %T for fad element", ErrInvalidValue, p.value))
	return fad.Value[T]{}
}

func (v FadView[T, L, S]) Label() string { return v.label }

func (v FadView[T, L, S]) Rank() int {
	if v.m.public == nil {
		return 0
	}
	return v.m.public.Rank()
}

// Extent returns the extent of public axis r, or 1 past the rank.
func (v FadView[T, L, S]) Extent(r int) int {
	if v.m.public == nil || r < 0 || r >= v.m.public.Rank() {
		return 1
	}
	return v.m.public.Extent(r)
}

// Stride returns the slot stride of public axis r, or 0 past the rank.
func (v FadView[T, L, S]) Stride(r int) int {
	if v.m.public == nil || r < 0 || r >= v.m.public.Rank() {
		return 0
	}
	return v.m.public.Stride(r)
}

func (v FadView[T, L, S]) Dims() []int {
	if v.m.public == nil {
		return nil
	}
	return v.m.public.Dims().Slice()
}

func (v FadView[T, L, S]) Size() int {
	if v.m.public == nil {
		return 0
	}
	return v.m.public.Size()
}

// Span counts slots, including derivative slots.
func (v FadView[T, L, S]) Span() int { return v.m.span() }

// SpanIsContiguous is false: derivative slots interleave with element values.
func (v FadView[T, L, S]) SpanIsContiguous() bool { return false }

// DerivativeSize is the number of derivative components per element.
func (v FadView[T, L, S]) DerivativeSize() int {
	if v.m.full == nil {
		return 0
	}
	return v.m.fadSize
}

// ScalarDimension is the extent of the derivative axis, DerivativeSize()+1,
// or 0 for an empty view.
func (v FadView[T, L, S]) ScalarDimension() int {
	if v.m.full == nil {
		return 0
	}
	return v.m.fadSize + 1
}

// FadStride is the slot distance between components of one element.
func (v FadView[T, L, S]) FadStride() int { return v.m.fadStride }

func (v FadView[T, L, S]) Data() []T { return v.data }

func (v FadView[T, L, S]) Record() *memspace.Record { return v.record }

// Offset is the mapping including the derivative axis.
func (v FadView[T, L, S]) Offset() layout.Offset { return v.m.full }

// Ref binds a reference to the element at idx.
func (v FadView[T, L, S]) Ref(idx ...int) fad.Ref[T] {
	return fad.MakeRef(v.data, v.m.public.Index(idx...), v.m.fadSize, v.m.fadStride)
}

// Get copies the element at idx out of the view.
func (v FadView[T, L, S]) Get(idx ...int) fad.Value[T] {
	return v.Ref(idx...).Load()
}

// Put stores val at idx.
func (v FadView[T, L, S]) Put(val fad.Value[T], idx ...int) {
	v.Ref(idx...).Store(val)
}

// Fill sets every value slot to x and zeroes every derivative.
func (v FadView[T, L, S]) Fill(x T) {
	v.each(func(r fad.Ref[T]) { r.SetScalar(x) })
}

// FillValue stores val into every element.
func (v FadView[T, L, S]) FillValue(val fad.Value[T]) {
	v.each(func(r fad.Ref[T]) { r.Store(val) })
}

func (v FadView[T, L, S]) each(fn func(fad.Ref[T])) {
	if v.m.public == nil {
		return
	}
	d := v.m.public.Dims()
	sp := v.exec
	if sp == nil {
		sp = exec.Default()
	}
	sp.RangeFor(d.Size(), exec.DefaultChunk, func(begin, end int) {
		idx := make([]int, d.Rank())
		for i := begin; i < end; i++ {
			layout.Unravel(d, i, idx)
			fn(v.Ref(idx...))
		}
	})
}

// Release drops this view's reference to its allocation.
func (v *FadView[T, L, S]) Release() {
	if v.record != nil {
		v.record.Release()
	}
	*v = FadView[T, L, S]{}
}

// Const returns a read-only view sharing this view's storage.
func (v FadView[T, L, S]) Const() ConstFadView[T, L, S] {
	retain(v.record)
	return ConstFadView[T, L, S]{v: v}
}

// ConstFadView is a read-only FadView.
type ConstFadView[T fad.Scalar, L layout.Policy, S fad.Size] struct {
	v FadView[T, L, S]
}

func (c ConstFadView[T, L, S]) Label() string               { return c.v.Label() }
func (c ConstFadView[T, L, S]) Rank() int                   { return c.v.Rank() }
func (c ConstFadView[T, L, S]) Extent(r int) int            { return c.v.Extent(r) }
func (c ConstFadView[T, L, S]) Stride(r int) int            { return c.v.Stride(r) }
func (c ConstFadView[T, L, S]) Span() int                   { return c.v.Span() }
func (c ConstFadView[T, L, S]) DerivativeSize() int         { return c.v.DerivativeSize() }
func (c ConstFadView[T, L, S]) ScalarDimension() int        { return c.v.ScalarDimension() }
func (c ConstFadView[T, L, S]) Get(idx ...int) fad.Value[T] { return c.v.Get(idx...) }
func (c ConstFadView[T, L, S]) Record() *memspace.Record    { return c.v.record }

func (c *ConstFadView[T, L, S]) Release() { c.v.Release() }
