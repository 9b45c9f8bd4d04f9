package view

import "github.com/san-kum/kview/internal/layout"

// anyView is implemented by every view type, plain or fad, const or not.
type anyView interface {
	Rank() int
	Span() int
	isView()
}

func (View[T, L]) isView()            {}
func (ConstView[T, L]) isView()       {}
func (FadView[T, L, S]) isView()      {}
func (ConstFadView[T, L, S]) isView() {}

// fadViewer is implemented by fad views and their const forms.
type fadViewer interface {
	anyView
	DerivativeSize() int
	ScalarDimension() int
	contiguousDerivatives() bool
}

func (v FadView[T, L, S]) contiguousDerivatives() bool {
	return layout.IsContiguous[L]()
}

func (c ConstFadView[T, L, S]) contiguousDerivatives() bool {
	return c.v.contiguousDerivatives()
}

// IsViewFad reports whether v is a view of derivative-aware scalars.
func IsViewFad(v any) bool {
	_, ok := v.(fadViewer)
	return ok
}

// IsViewFadContiguous reports whether v is a fad view whose derivative
// layout is contiguous by construction.
func IsViewFadContiguous(v any) bool {
	f, ok := v.(fadViewer)
	return ok && f.contiguousDerivatives()
}

func derivativeCount(v any) int {
	if f, ok := v.(fadViewer); ok {
		return f.DerivativeSize()
	}
	return 0
}

// DerivativeDimension returns the largest derivative count over the given
// views. Plain views, empty views and non-view values count as 0.
func DerivativeDimension(v any, more ...any) int {
	n := derivativeCount(v)
	for _, m := range more {
		n = max(n, derivativeCount(m))
	}
	return n
}

// ScalarDimension is the extent of the derivative axis of a fad view, one
// more than its derivative count. It is 0 for anything else.
func ScalarDimension(v any) int {
	if f, ok := v.(fadViewer); ok {
		return f.ScalarDimension()
	}
	return 0
}
