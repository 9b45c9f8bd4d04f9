package view

import (
	"fmt"

	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
	"k8s.io/klog/v2"
)

// Assignment makes the destination alias the source: it releases the
// destination's allocation, retains the source's and takes over its
// mapping. Static axes of a non-empty destination must match the source and
// stay static. Plain to fad assignment has no function.

func checkSpace(op, label string, dst, src *memspace.Record) {
	if dst != nil && src != nil && !dst.SameSpace(src) {
		fatal(op, label, fmt.Errorf("%w: %s from %s", ErrSpaceMismatch, dst.SpaceName(), src.SpaceName()))
	}
}

// conform checks src against the current destination offset and returns src
// carrying the destination's static axes. A nil destination accepts any shape.
func conform(op, label string, dst, src layout.Offset) layout.Offset {
	if dst == nil || src == nil {
		return src
	}
	dd, sd := dst.Dims(), src.Dims()
	if !dd.Assignable(sd) {
		fatal(op, label, fmt.Errorf("%w: %v from %v", ErrDimensionMismatch, dd, sd))
	}
	return layout.Reshape(src, sd.WithStatic(dd))
}

func rebind(op, label string, dst, src *memspace.Record) {
	retain(src)
	if dst != nil {
		dst.Release()
	}
	klog.V(5).InfoS("assigned view", "op", op, "label", label)
}

// Assign makes v alias src.
func (v *View[T, L]) Assign(src View[T, L]) {
	checkSpace("assign", v.label, v.record, src.record)
	off := conform("assign", v.label, v.offset, src.offset)
	rebind("assign", src.label, v.record, src.record)
	*v = View[T, L]{label: src.label, data: src.data, offset: off, record: src.record, exec: src.exec}
}

// AssignStrided makes the strided view dst alias src of any layout.
func AssignStrided[T Number, L layout.Policy](dst *View[T, layout.LayoutStride], src View[T, L]) {
	checkSpace("assign", dst.label, dst.record, src.record)
	var off layout.Offset
	if src.offset != nil {
		off = conform("assign", dst.label, dst.offset, layout.AsStride(src.offset))
	}
	rebind("assign", src.label, dst.record, src.record)
	*dst = View[T, layout.LayoutStride]{label: src.label, data: src.data, offset: off, record: src.record, exec: src.exec}
}

// Assign makes v alias src, taking over its derivative size and stride.
func (v *FadView[T, L, S]) Assign(src FadView[T, L, S]) {
	checkSpace("assign", v.label, v.record, src.record)
	m := src.m
	m.public = conform("assign", v.label, v.m.public, src.m.public)
	rebind("assign", src.label, v.record, src.record)
	*v = FadView[T, L, S]{label: src.label, data: src.data, m: m, record: src.record, exec: src.exec}
}

// AssignFadStrided makes the strided fad view dst alias src of any layout.
func AssignFadStrided[T fad.Scalar, L layout.Policy, S fad.Size](dst *FadView[T, layout.LayoutStride, S], src FadView[T, L, S]) {
	checkSpace("assign", dst.label, dst.record, src.record)
	m := src.m
	if m.full != nil {
		m.full = layout.AsStride(m.full)
		m.public = conform("assign", dst.label, dst.m.public, layout.AsStride(m.public))
	}
	rebind("assign", src.label, dst.record, src.record)
	*dst = FadView[T, layout.LayoutStride, S]{label: src.label, data: src.data, m: m, record: src.record, exec: src.exec}
}

// Flatten makes the plain view dst alias every slot of src. dst sees one
// more axis than src: the derivative axis, leading for ContiguousLeft and
// trailing otherwise.
func Flatten[T fad.Scalar, L layout.Policy, S fad.Size](dst *View[T, L], src FadView[T, L, S]) {
	checkSpace("flatten", dst.label, dst.record, src.record)
	off := conform("flatten", dst.label, dst.offset, src.m.full)
	rebind("flatten", src.label, dst.record, src.record)
	*dst = View[T, L]{label: src.label, data: src.data, offset: off, record: src.record, exec: src.exec}
}

// FlattenStrided is Flatten into a strided destination.
func FlattenStrided[T fad.Scalar, L layout.Policy, S fad.Size](dst *View[T, layout.LayoutStride], src FadView[T, L, S]) {
	checkSpace("flatten", dst.label, dst.record, src.record)
	var off layout.Offset
	if src.m.full != nil {
		off = conform("flatten", dst.label, dst.offset, layout.AsStride(src.m.full))
	}
	rebind("flatten", src.label, dst.record, src.record)
	*dst = View[T, layout.LayoutStride]{label: src.label, data: src.data, offset: off, record: src.record, exec: src.exec}
}

// Assign makes c alias src. Const views only accept const sources.
func (c *ConstView[T, L]) Assign(src ConstView[T, L]) {
	c.v.Assign(src.v)
}

// Assign makes c alias src.
func (c *ConstFadView[T, L, S]) Assign(src ConstFadView[T, L, S]) {
	c.v.Assign(src.v)
}
