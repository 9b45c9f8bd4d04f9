package view

// AllocProp is the allocation property inferred from the arguments of one
// fad allocation.
type AllocProp struct {
	// DerivativeSize is the largest derivative count among view arguments.
	DerivativeSize int
	// IsView reports whether any argument was a view.
	IsView bool
}

// ResolveAllocProp inspects sibling arguments. Arguments that are not views
// are ignored; plain and empty views count as views of derivative size 0.
func ResolveAllocProp(args ...any) AllocProp {
	var p AllocProp
	for _, a := range args {
		if _, ok := a.(anyView); !ok {
			continue
		}
		p.IsView = true
		p.DerivativeSize = max(p.DerivativeSize, derivativeCount(a))
	}
	return p
}
