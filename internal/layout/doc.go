// Package layout maps multidimensional index tuples to linear storage offsets.
//
// Three policies are supported:
//
//   - [Left]: the first axis varies fastest (column major)
//   - [Right]: the last axis varies fastest (row major)
//   - [Stride]: every axis carries an explicit stride
//
// Each policy has its own [Offset] implementation. Views use the phantom
// policy types ([LayoutLeft], [LayoutRight], [LayoutStride],
// [ContiguousLeft], [ContiguousRight]) as type parameters so that layout
// compatibility is checked by the compiler.
//
// # Example
//
//	off := layout.NewOffset(layout.Right, layout.MakeDims(3, 4), nil)
//	i := off.Index(2, 1) // 9
//
// Offsets are immutable values and safe for concurrent use.
package layout
