package fad

import "fmt"

// Ref addresses one fad element inside a view's storage. The value slot is
// at base and derivative k is at base + (k+1)*stride.
type Ref[T Scalar] struct {
	data   []T
	base   int
	size   int
	stride int
}

// MakeRef binds a reference to storage. It is used by view mappings.
func MakeRef[T Scalar](data []T, base, size, stride int) Ref[T] {
	return Ref[T]{data: data, base: base, size: size, stride: stride}
}

// Size is the number of derivative components.
func (r Ref[T]) Size() int { return r.size }

// Stride is the distance in slots between consecutive components.
func (r Ref[T]) Stride() int { return r.stride }

func (r Ref[T]) Val() T { return r.data[r.base] }

func (r Ref[T]) SetVal(v T) { r.data[r.base] = v }

func (r Ref[T]) slot(k int) int {
	if k < 0 || k >= r.size {
		panic(fmt.Sprintf("fad: derivative %d out of range [0,%d)", k, r.size))
	}
	return r.base + (k+1)*r.stride
}

// Dx returns derivative component k.
func (r Ref[T]) Dx(k int) T { return r.data[r.slot(k)] }

func (r Ref[T]) SetDx(k int, v T) { r.data[r.slot(k)] = v }

// Ptr returns the address of slot k, where slot 0 is the value.
func (r Ref[T]) Ptr(k int) *T {
	if k == 0 {
		return &r.data[r.base]
	}
	return &r.data[r.slot(k-1)]
}

// Load copies the element out of storage.
func (r Ref[T]) Load() Value[T] {
	v := Value[T]{Val: r.Val(), Dx: make([]T, r.size)}
	for k := range v.Dx {
		v.Dx[k] = r.data[r.base+(k+1)*r.stride]
	}
	return v
}

// Store writes v into storage. Missing derivative components are zeroed and
// extra ones are ignored.
func (r Ref[T]) Store(v Value[T]) {
	r.data[r.base] = v.Val
	for k := 0; k < r.size; k++ {
		var d T
		if k < len(v.Dx) {
			d = v.Dx[k]
		}
		r.data[r.base+(k+1)*r.stride] = d
	}
}

// SetScalar sets the value slot and zeroes every derivative.
func (r Ref[T]) SetScalar(v T) {
	r.data[r.base] = v
	for k := 0; k < r.size; k++ {
		r.data[r.base+(k+1)*r.stride] = 0
	}
}

// CopyFrom copies every slot of src, which must have the same size.
func (r Ref[T]) CopyFrom(src Ref[T]) {
	if src.size != r.size {
		panic(fmt.Sprintf("fad: copy between sizes %d and %d", src.size, r.size))
	}
	r.data[r.base] = src.data[src.base]
	for k := 1; k <= r.size; k++ {
		r.data[r.base+k*r.stride] = src.data[src.base+k*src.stride]
	}
}
