package view

import (
	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
)

// Number is the element type of a plain view.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// View is a multidimensional array of plain numbers laid out by policy L.
// Copies of a View share storage; Assign, Subview and Const retain the
// allocation record and Release drops it.
type View[T Number, L layout.Policy] struct {
	label  string
	data   []T
	offset layout.Offset
	record *memspace.Record
	exec   exec.Space
}

// New allocates a view with the given extents (at most 8 axes).
func New[T Number, L layout.Policy](label string, dims []int, opts ...Option) (View[T, L], error) {
	p := newProps(opts)
	d := makeDims("allocate", label, dims, p.static, layout.MaxRank)
	off := layout.NewOffset(layout.KindOf[L](), d, p.strides)

	data, rec, err := allocate("allocate", label, p, off.Span(), initValue[T]("allocate", label, p))
	if err != nil {
		return View[T, L]{}, err
	}
	return View[T, L]{label: label, data: data, offset: off, record: rec, exec: p.exec}, nil
}

// Wrap builds an unmanaged view over caller storage.
func Wrap[T Number, L layout.Policy](data []T, dims []int, opts ...Option) View[T, L] {
	p := newProps(opts)
	d := makeDims("wrap", "", dims, p.static, layout.MaxRank)
	off := layout.NewOffset(layout.KindOf[L](), d, p.strides)
	if len(data) < off.Span() {
		fatal("wrap", "", ErrSpanTooSmall)
	}
	return View[T, L]{data: data[:off.Span()], offset: off, exec: p.exec}
}

func (v View[T, L]) Label() string { return v.label }

func (v View[T, L]) Rank() int {
	if v.offset == nil {
		return 0
	}
	return v.offset.Rank()
}

// Extent returns the extent of axis r, or 1 past the rank.
func (v View[T, L]) Extent(r int) int {
	if v.offset == nil || r < 0 || r >= v.offset.Rank() {
		return 1
	}
	return v.offset.Extent(r)
}

// Stride returns the stride of axis r, or 0 past the rank.
func (v View[T, L]) Stride(r int) int {
	if v.offset == nil || r < 0 || r >= v.offset.Rank() {
		return 0
	}
	return v.offset.Stride(r)
}

// Dims returns the extents of every axis.
func (v View[T, L]) Dims() []int {
	if v.offset == nil {
		return nil
	}
	return v.offset.Dims().Slice()
}

// Size is the number of elements.
func (v View[T, L]) Size() int {
	if v.offset == nil {
		return 0
	}
	return v.offset.Size()
}

func (v View[T, L]) Span() int {
	if v.offset == nil {
		return 0
	}
	return v.offset.Span()
}

func (v View[T, L]) SpanIsContiguous() bool {
	return v.offset != nil && v.offset.SpanIsContiguous()
}

// Data is the storage addressed by the view, [data, data+span).
func (v View[T, L]) Data() []T { return v.data }

// Record is the shared allocation record, nil for wrapped views.
func (v View[T, L]) Record() *memspace.Record { return v.record }

func (v View[T, L]) Offset() layout.Offset { return v.offset }

// Ref returns the address of the element at idx.
func (v View[T, L]) Ref(idx ...int) *T {
	return &v.data[v.offset.Index(idx...)]
}

func (v View[T, L]) At(idx ...int) T {
	return v.data[v.offset.Index(idx...)]
}

func (v View[T, L]) Set(val T, idx ...int) {
	v.data[v.offset.Index(idx...)] = val
}

// Fill sets every element to val.
func (v View[T, L]) Fill(val T) {
	if v.offset == nil {
		return
	}
	if v.offset.SpanIsContiguous() {
		v.execSpace().RangeFor(len(v.data), exec.DefaultChunk, func(begin, end int) {
			for i := begin; i < end; i++ {
				v.data[i] = val
			}
		})
		return
	}
	d := v.offset.Dims()
	v.execSpace().RangeFor(d.Size(), exec.DefaultChunk, func(begin, end int) {
		idx := make([]int, d.Rank())
		for i := begin; i < end; i++ {
			layout.Unravel(d, i, idx)
			v.data[v.offset.Index(idx...)] = val
		}
	})
}

// Release drops this view's reference to its allocation.
func (v *View[T, L]) Release() {
	if v.record != nil {
		v.record.Release()
	}
	*v = View[T, L]{}
}

// Const returns a read-only view sharing this view's storage.
func (v View[T, L]) Const() ConstView[T, L] {
	retain(v.record)
	return ConstView[T, L]{v: v}
}

func (v View[T, L]) execSpace() exec.Space {
	if v.exec == nil {
		return exec.Default()
	}
	return v.exec
}

func retain(r *memspace.Record) {
	if r != nil {
		r.Retain()
	}
}

// ConstView is a read-only View. It has no way back to a mutable view.
type ConstView[T Number, L layout.Policy] struct {
	v View[T, L]
}

func (c ConstView[T, L]) Label() string            { return c.v.Label() }
func (c ConstView[T, L]) Rank() int                { return c.v.Rank() }
func (c ConstView[T, L]) Extent(r int) int         { return c.v.Extent(r) }
func (c ConstView[T, L]) Stride(r int) int         { return c.v.Stride(r) }
func (c ConstView[T, L]) Span() int                { return c.v.Span() }
func (c ConstView[T, L]) Size() int                { return c.v.Size() }
func (c ConstView[T, L]) At(idx ...int) T          { return c.v.At(idx...) }
func (c ConstView[T, L]) Record() *memspace.Record { return c.v.record }

func (c *ConstView[T, L]) Release() { c.v.Release() }
