package view

import (
	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/memspace"
)

// ctorProps collects the construction properties of one view.
type ctorProps struct {
	space        memspace.Space
	exec         exec.Space
	initialize   bool
	value        any
	strides      []int
	static       []int
	derivatives  int
	hasDerivs    bool
	allocProp    AllocProp
	hasAllocProp bool
}

// Option configures view construction.
type Option func(*ctorProps)

func newProps(opts []Option) ctorProps {
	p := ctorProps{
		space:      memspace.Host(),
		exec:       exec.Default(),
		initialize: true,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// WithSpace allocates from the given memory space.
func WithSpace(s memspace.Space) Option {
	return func(p *ctorProps) { p.space = s }
}

// WithExec runs element construction and fills on the given space.
func WithExec(s exec.Space) Option {
	return func(p *ctorProps) { p.exec = s }
}

// WithoutInitializing skips element construction.
func WithoutInitializing() Option {
	return func(p *ctorProps) { p.initialize = false }
}

// WithValue constructs every element (every value slot for fad views) as v.
func WithValue[T any](v T) Option {
	return func(p *ctorProps) { p.value = v }
}

// WithStrides sets explicit strides for strided layouts. Fad views accept
// either one stride per public axis, counted in elements, or one more for
// the derivative axis, counted in slots.
func WithStrides(strides ...int) Option {
	return func(p *ctorProps) { p.strides = append([]int(nil), strides...) }
}

// Static marks axes whose extents are fixed for the life of the view.
func Static(axes ...int) Option {
	return func(p *ctorProps) { p.static = append([]int(nil), axes...) }
}

// WithDerivatives sets the derivative count of a dynamic fad view.
func WithDerivatives(n int) Option {
	return func(p *ctorProps) {
		p.derivatives = n
		p.hasDerivs = true
	}
}

// Like infers the derivative count of a dynamic fad view from sibling
// views. Arguments that are not views are ignored.
func Like(args ...any) Option {
	return func(p *ctorProps) {
		p.allocProp = ResolveAllocProp(args...)
		p.hasAllocProp = true
	}
}
