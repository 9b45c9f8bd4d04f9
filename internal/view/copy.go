package view

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
)

func sameExtents(op, label string, dst, src []int) {
	if !slices.Equal(dst, src) {
		fatal(op, label, fmt.Errorf("%w: %v from %v", ErrDimensionMismatch, dst, src))
	}
}

// forEachIndex runs fn over every index tuple of dims on s. Each chunk
// gets its own index buffer.
func forEachIndex(s exec.Space, dims []int, fn func(idx []int)) {
	d := layout.MakeDims(dims...)
	s.RangeFor(d.Size(), exec.DefaultChunk, func(begin, end int) {
		idx := make([]int, d.Rank())
		for i := begin; i < end; i++ {
			layout.Unravel(d, i, idx)
			fn(idx)
		}
	})
}

// DeepCopy copies every element of src into dst. The views must have equal
// extents; their layouts may differ.
func DeepCopy[T Number, L1, L2 layout.Policy](dst View[T, L1], src View[T, L2]) {
	sameExtents("deep copy", dst.label, dst.Dims(), src.Dims())
	if dst.Size() == 0 {
		return
	}
	if dst.SpanIsContiguous() && src.SpanIsContiguous() && layout.Equal(dst.offset, src.offset) {
		copy(dst.data, src.data)
		return
	}
	forEachIndex(dst.execSpace(), dst.Dims(), func(idx []int) {
		dst.data[dst.offset.Index(idx...)] = src.data[src.offset.Index(idx...)]
	})
}

// DeepCopyFad copies every slot of every element of src into dst. The
// views must have equal extents and derivative sizes.
func DeepCopyFad[T fad.Scalar, L1, L2 layout.Policy, S fad.Size](dst FadView[T, L1, S], src FadView[T, L2, S]) {
	sameExtents("deep copy", dst.label, dst.Dims(), src.Dims())
	if dst.DerivativeSize() != src.DerivativeSize() {
		fatal("deep copy", dst.label, fmt.Errorf("%w: derivative size %d from %d", ErrDimensionMismatch, dst.DerivativeSize(), src.DerivativeSize()))
	}
	if dst.Size() == 0 {
		return
	}
	sp := dst.exec
	if sp == nil {
		sp = exec.Default()
	}
	forEachIndex(sp, dst.Dims(), func(idx []int) {
		dst.Ref(idx...).CopyFrom(src.Ref(idx...))
	})
}

// Hadamard stores the element-wise product of a and b into dst. Views with
// identical contiguous mappings go through the block kernel.
func Hadamard[L layout.Policy](dst, a, b View[float64, L]) {
	sameExtents("hadamard", dst.label, dst.Dims(), a.Dims())
	sameExtents("hadamard", dst.label, dst.Dims(), b.Dims())
	if dst.Size() == 0 {
		return
	}
	if dst.SpanIsContiguous() && layout.Equal(dst.offset, a.offset) && layout.Equal(dst.offset, b.offset) {
		dst.execSpace().RangeFor(len(dst.data), exec.DefaultChunk*16, func(begin, end int) {
			vecmath.MulBlock(dst.data[begin:end], a.data[begin:end], b.data[begin:end])
		})
		return
	}
	forEachIndex(dst.execSpace(), dst.Dims(), func(idx []int) {
		dst.data[dst.offset.Index(idx...)] = a.data[a.offset.Index(idx...)] * b.data[b.offset.Index(idx...)]
	})
}
