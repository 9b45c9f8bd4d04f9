package layout

// Kind identifies an addressing convention.
type Kind uint8

const (
	Left Kind = iota
	Right
	Stride
)

func (k Kind) String() string {
	switch k {
	case Left:
		return "left"
	case Right:
		return "right"
	case Stride:
		return "stride"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "left", "LayoutLeft":
		return Left, true
	case "right", "LayoutRight":
		return Right, true
	case "stride", "LayoutStride":
		return Stride, true
	}
	return 0, false
}

// Policy is implemented by the zero-size layout marker types used as view
// type parameters.
type Policy interface {
	Kind() Kind
	// Contiguous reports whether the derivative slots of a fad element are
	// kept at unit stride.
	Contiguous() bool
}

type (
	LayoutLeft      struct{}
	LayoutRight     struct{}
	LayoutStride    struct{}
	ContiguousLeft  struct{}
	ContiguousRight struct{}
)

func (LayoutLeft) Kind() Kind        { return Left }
func (LayoutLeft) Contiguous() bool  { return false }
func (LayoutRight) Kind() Kind       { return Right }
func (LayoutRight) Contiguous() bool { return false }

func (LayoutStride) Kind() Kind       { return Stride }
func (LayoutStride) Contiguous() bool { return false }

func (ContiguousLeft) Kind() Kind        { return Left }
func (ContiguousLeft) Contiguous() bool  { return true }
func (ContiguousRight) Kind() Kind       { return Right }
func (ContiguousRight) Contiguous() bool { return true }

// KindOf returns the Kind of a policy type parameter.
func KindOf[L Policy]() Kind {
	var l L
	return l.Kind()
}

// IsContiguous reports whether a policy type parameter keeps derivative
// slots contiguous.
func IsContiguous[L Policy]() bool {
	var l L
	return l.Contiguous()
}
