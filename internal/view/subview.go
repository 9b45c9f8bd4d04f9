package view

import (
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
)

// window returns data[base : base+span], or nil for an empty span.
func window[T any](data []T, base, span int) []T {
	if span == 0 {
		return nil
	}
	return data[base : base+span]
}

// Subview restricts v by one slice per axis. The result shares v's storage
// and holds its own reference to the allocation.
func Subview[T Number, L layout.Policy](v View[T, L], slices ...layout.Slice) View[T, layout.LayoutStride] {
	off, base := layout.Sub(v.offset, slices...)
	retain(v.record)
	return View[T, layout.LayoutStride]{
		label:  v.label,
		data:   window(v.data, base, off.Span()),
		offset: off,
		record: v.record,
		exec:   v.exec,
	}
}

// SubviewFad restricts the public axes of v. The derivative size and stride
// are unchanged.
func SubviewFad[T fad.Scalar, L layout.Policy, S fad.Size](v FadView[T, L, S], slices ...layout.Slice) FadView[T, layout.LayoutStride, S] {
	m, base := v.m.sub(slices)
	retain(v.record)
	return FadView[T, layout.LayoutStride, S]{
		label:  v.label,
		data:   window(v.data, base, m.span()),
		m:      m,
		record: v.record,
		exec:   v.exec,
	}
}
