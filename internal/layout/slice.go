package layout

import "fmt"

// Slice restricts one axis of a sub-view: a single index drops the axis, a
// range keeps it.
type Slice struct {
	begin, end int
	point      bool
	all        bool
}

// At selects a single index and removes the axis from the result.
func At(i int) Slice { return Slice{begin: i, end: i + 1, point: true} }

// Range selects the half-open range [begin, end).
func Range(begin, end int) Slice { return Slice{begin: begin, end: end} }

// All keeps the whole axis.
func All() Slice { return Slice{all: true} }

// IsPoint reports whether the slice drops its axis.
func (s Slice) IsPoint() bool { return s.point }

// Sub restricts o by one slice per axis. It returns a strided offset over
// the kept axes and the linear offset of the first selected element.
func Sub(o Offset, slices ...Slice) (Offset, int) {
	d := o.Dims()
	if len(slices) != d.rank {
		panic(fmt.Errorf("%w: got %d slices for rank %d", ErrRankMismatch, len(slices), d.rank))
	}
	var out strideOffset
	base := 0
	for i, s := range slices {
		ext := d.ext[i]
		stride := o.Stride(i)
		switch {
		case s.all:
			out.dims.ext[out.dims.rank] = ext
			out.stride[out.dims.rank] = stride
			out.dims.rank++
		case s.point:
			if s.begin < 0 || s.begin >= ext {
				panic(&BoundsError{Axis: i, Index: s.begin, Extent: ext})
			}
			base += s.begin * stride
		default:
			if s.begin < 0 || s.end < s.begin || s.end > ext {
				panic(fmt.Errorf("%w: range [%d,%d) on axis %d of extent %d", ErrIndexOutOfRange, s.begin, s.end, i, ext))
			}
			if s.end > s.begin {
				base += s.begin * stride
			}
			out.dims.ext[out.dims.rank] = s.end - s.begin
			out.stride[out.dims.rank] = stride
			out.dims.rank++
		}
	}
	return out, base
}

// ForEach calls fn for every index tuple of d with the last axis varying
// fastest. The idx slice is reused between calls.
func ForEach(d Dims, fn func(idx []int)) {
	if d.Size() == 0 {
		return
	}
	idx := make([]int, d.rank)
	for {
		fn(idx)
		r := d.rank - 1
		for ; r >= 0; r-- {
			idx[r]++
			if idx[r] < d.ext[r] {
				break
			}
			idx[r] = 0
		}
		if r < 0 {
			return
		}
	}
}

// Unravel writes into idx the tuple at position flat of the last-axis-fastest
// enumeration used by ForEach.
func Unravel(d Dims, flat int, idx []int) {
	for r := d.rank - 1; r >= 0; r-- {
		e := d.ext[r]
		idx[r] = flat % e
		flat /= e
	}
}
