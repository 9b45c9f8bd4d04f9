package layout

import "fmt"

// Offset converts index tuples into linear offsets for one layout policy.
type Offset interface {
	Kind() Kind
	Dims() Dims
	Rank() int
	// Extent and Stride return 1 for axes past the rank.
	Extent(r int) int
	Stride(r int) int
	Index(idx ...int) int
	Size() int
	// Span is one past the largest reachable offset.
	Span() int
	SpanIsContiguous() bool
}

// NewOffset builds the offset for kind over dims. Strides are read only for
// the Stride kind; when none are given the strides are right-compact.
func NewOffset(kind Kind, dims Dims, strides []int) Offset {
	switch kind {
	case Left:
		return leftOffset{dims: dims}
	case Right:
		return rightOffset{dims: dims}
	case Stride:
		if len(strides) == 0 {
			return AsStride(rightOffset{dims: dims})
		}
		if len(strides) != dims.Rank() {
			panic(fmt.Sprintf("layout: %d strides for rank %d", len(strides), dims.Rank()))
		}
		s := strideOffset{dims: dims}
		for i, v := range strides {
			if v < 0 {
				panic(fmt.Sprintf("layout: negative stride %d on axis %d", v, i))
			}
			s.stride[i] = v
		}
		return s
	}
	panic(fmt.Sprintf("layout: unknown kind %d", kind))
}

func checkIndex(d Dims, idx []int) {
	if len(idx) != d.rank {
		panic(fmt.Errorf("%w: got %d indices for rank %d", ErrRankMismatch, len(idx), d.rank))
	}
	for i, v := range idx {
		if v < 0 || v >= d.ext[i] {
			panic(&BoundsError{Axis: i, Index: v, Extent: d.ext[i]})
		}
	}
}

type leftOffset struct {
	dims Dims
}

func (o leftOffset) Kind() Kind             { return Left }
func (o leftOffset) Dims() Dims             { return o.dims }
func (o leftOffset) Rank() int              { return o.dims.rank }
func (o leftOffset) Extent(r int) int       { return o.dims.Extent(r) }
func (o leftOffset) Size() int              { return o.dims.Size() }
func (o leftOffset) Span() int              { return o.dims.Size() }
func (o leftOffset) SpanIsContiguous() bool { return true }

func (o leftOffset) Stride(r int) int {
	if r < 0 || r >= o.dims.rank {
		return 1
	}
	s := 1
	for i := 0; i < r; i++ {
		s *= o.dims.ext[i]
	}
	return s
}

func (o leftOffset) Index(idx ...int) int {
	checkIndex(o.dims, idx)
	off := 0
	for i := o.dims.rank - 1; i >= 0; i-- {
		off = off*o.dims.ext[i] + idx[i]
	}
	return off
}

type rightOffset struct {
	dims Dims
}

func (o rightOffset) Kind() Kind             { return Right }
func (o rightOffset) Dims() Dims             { return o.dims }
func (o rightOffset) Rank() int              { return o.dims.rank }
func (o rightOffset) Extent(r int) int       { return o.dims.Extent(r) }
func (o rightOffset) Size() int              { return o.dims.Size() }
func (o rightOffset) Span() int              { return o.dims.Size() }
func (o rightOffset) SpanIsContiguous() bool { return true }

func (o rightOffset) Stride(r int) int {
	if r < 0 || r >= o.dims.rank {
		return 1
	}
	s := 1
	for i := o.dims.rank - 1; i > r; i-- {
		s *= o.dims.ext[i]
	}
	return s
}

func (o rightOffset) Index(idx ...int) int {
	checkIndex(o.dims, idx)
	off := 0
	for i := 0; i < o.dims.rank; i++ {
		off = off*o.dims.ext[i] + idx[i]
	}
	return off
}

type strideOffset struct {
	dims   Dims
	stride [MaxRank]int
}

func (o strideOffset) Kind() Kind       { return Stride }
func (o strideOffset) Dims() Dims       { return o.dims }
func (o strideOffset) Rank() int        { return o.dims.rank }
func (o strideOffset) Extent(r int) int { return o.dims.Extent(r) }
func (o strideOffset) Size() int        { return o.dims.Size() }

func (o strideOffset) Stride(r int) int {
	if r < 0 || r >= o.dims.rank {
		return 1
	}
	return o.stride[r]
}

func (o strideOffset) Index(idx ...int) int {
	checkIndex(o.dims, idx)
	off := 0
	for i, v := range idx {
		off += v * o.stride[i]
	}
	return off
}

func (o strideOffset) Span() int {
	if o.dims.Size() == 0 {
		return 0
	}
	last := 0
	for i := 0; i < o.dims.rank; i++ {
		last += (o.dims.ext[i] - 1) * o.stride[i]
	}
	return last + 1
}

func (o strideOffset) SpanIsContiguous() bool {
	return o.Span() == o.Size()
}

// AsStride returns an explicitly strided copy of o.
func AsStride(o Offset) Offset {
	s := strideOffset{dims: o.Dims()}
	for i := 0; i < s.dims.rank; i++ {
		s.stride[i] = o.Stride(i)
	}
	return s
}

// Append adds one trailing axis of extent n. Left and right offsets keep
// their kind; a strided offset uses the given stride for the new axis.
func Append(o Offset, n, stride int) Offset {
	switch o := o.(type) {
	case leftOffset:
		return leftOffset{dims: o.dims.Append(n)}
	case rightOffset:
		return rightOffset{dims: o.dims.Append(n)}
	case strideOffset:
		out := strideOffset{dims: o.dims.Append(n), stride: o.stride}
		out.stride[o.dims.rank] = stride
		return out
	}
	panic(fmt.Sprintf("layout: unsupported offset %T", o))
}

// Prepend adds one leading axis of extent n.
func Prepend(o Offset, n, stride int) Offset {
	switch o := o.(type) {
	case leftOffset:
		return leftOffset{dims: o.dims.Prepend(n)}
	case rightOffset:
		return rightOffset{dims: o.dims.Prepend(n)}
	case strideOffset:
		out := strideOffset{dims: o.dims.Prepend(n)}
		out.stride[0] = stride
		copy(out.stride[1:], o.stride[:o.dims.rank])
		return out
	}
	panic(fmt.Sprintf("layout: unsupported offset %T", o))
}

// Drop removes axis r, keeping the strides of the remaining axes.
func Drop(o Offset, r int) Offset {
	d := o.Dims()
	if r < 0 || r >= d.rank {
		panic(fmt.Sprintf("layout: cannot drop axis %d of rank %d", r, d.rank))
	}
	var out strideOffset
	j := 0
	for i := 0; i < d.rank; i++ {
		if i == r {
			continue
		}
		out.dims.ext[j] = d.ext[i]
		if d.IsStatic(i) {
			out.dims.static |= 1 << uint(j)
		}
		out.stride[j] = o.Stride(i)
		j++
	}
	out.dims.rank = d.rank - 1
	return out
}

// Equal reports whether two offsets address storage identically.
func Equal(a, b Offset) bool {
	if a.Rank() != b.Rank() {
		return false
	}
	for i := 0; i < a.Rank(); i++ {
		if a.Extent(i) != b.Extent(i) || a.Stride(i) != b.Stride(i) {
			return false
		}
	}
	return true
}

// Reshape rebuilds o over dims d, keeping the kind and, for strided
// offsets, the per-axis strides. The ranks must agree.
func Reshape(o Offset, d Dims) Offset {
	if o.Rank() != d.Rank() {
		panic(fmt.Sprintf("layout: reshape rank %d to rank %d", o.Rank(), d.Rank()))
	}
	if o.Kind() != Stride {
		return NewOffset(o.Kind(), d, nil)
	}
	s := strideOffset{dims: d}
	for i := 0; i < d.rank; i++ {
		s.stride[i] = o.Stride(i)
	}
	return s
}
