package view

import (
	"fmt"

	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
)

// Snapshot is a detached copy of a view's contents. Values are listed in
// index order with the last axis fastest; a fad element contributes its
// value followed by its derivatives.
type Snapshot struct {
	Label          string    `json:"label"`
	Layout         string    `json:"layout"`
	Dims           []int     `json:"dims"`
	DerivativeSize int       `json:"derivative_size"`
	Values         []float64 `json:"-"`
}

// Width is the number of values per element.
func (s Snapshot) Width() int { return s.DerivativeSize + 1 }

// Elements is the number of elements described by Dims.
func (s Snapshot) Elements() int {
	n := 1
	for _, d := range s.Dims {
		n *= d
	}
	return n
}

// Validate checks that Values matches the shape.
func (s Snapshot) Validate() error {
	if want := s.Elements() * s.Width(); len(s.Values) != want {
		return fmt.Errorf("snapshot %q: %d values for %d elements of width %d", s.Label, len(s.Values), s.Elements(), s.Width())
	}
	return nil
}

// Take copies the contents of v.
func Take[T Number, L layout.Policy](v View[T, L]) Snapshot {
	s := Snapshot{Label: v.label, Layout: layout.KindOf[L]().String(), Dims: v.Dims()}
	s.Values = make([]float64, 0, v.Size())
	if v.offset != nil {
		layout.ForEach(v.offset.Dims(), func(idx []int) {
			s.Values = append(s.Values, float64(v.At(idx...)))
		})
	}
	return s
}

// TakeFad copies the contents of a fad view.
func TakeFad[T fad.Scalar, L layout.Policy, S fad.Size](v FadView[T, L, S]) Snapshot {
	s := Snapshot{Label: v.label, Layout: layout.KindOf[L]().String(), Dims: v.Dims(), DerivativeSize: v.DerivativeSize()}
	s.Values = make([]float64, 0, v.Size()*s.Width())
	if v.m.public != nil {
		layout.ForEach(v.m.public.Dims(), func(idx []int) {
			r := v.Ref(idx...)
			s.Values = append(s.Values, float64(r.Val()))
			for k := 0; k < r.Size(); k++ {
				s.Values = append(s.Values, float64(r.Dx(k)))
			}
		})
	}
	return s
}

// Restore allocates a right-major view holding the contents of a plain
// snapshot.
func Restore[T Number](s Snapshot, opts ...Option) (View[T, layout.LayoutRight], error) {
	if err := s.Validate(); err != nil {
		return View[T, layout.LayoutRight]{}, err
	}
	if s.DerivativeSize != 0 {
		return View[T, layout.LayoutRight]{}, fmt.Errorf("snapshot %q: fad snapshot restored as plain view", s.Label)
	}
	v, err := New[T, layout.LayoutRight](s.Label, s.Dims, opts...)
	if err != nil {
		return v, err
	}
	for i, x := range s.Values {
		v.data[i] = T(x)
	}
	return v, nil
}

// RestoreFad allocates a dynamic right-major fad view holding the contents
// of a snapshot.
func RestoreFad[T fad.Scalar](s Snapshot, opts ...Option) (FadView[T, layout.LayoutRight, fad.Dynamic], error) {
	if err := s.Validate(); err != nil {
		return FadView[T, layout.LayoutRight, fad.Dynamic]{}, err
	}
	opts = append(opts, WithDerivatives(s.DerivativeSize))
	v, err := NewFad[T, layout.LayoutRight, fad.Dynamic](s.Label, s.Dims, opts...)
	if err != nil {
		return v, err
	}
	w := s.Width()
	i := 0
	layout.ForEach(v.m.public.Dims(), func(idx []int) {
		r := v.Ref(idx...)
		r.SetVal(T(s.Values[i*w]))
		for k := 0; k < r.Size(); k++ {
			r.SetDx(k, T(s.Values[i*w+k+1]))
		}
		i++
	})
	return v, nil
}
