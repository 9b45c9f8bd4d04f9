// Package view implements multidimensional array views over memory-space
// allocations.
//
// A View[T, L] addresses plain numbers through the layout policy L. A
// FadView[T, L, S] addresses derivative-aware scalars: each element is a
// value slot plus S derivative slots (or a count chosen at allocation for
// fad.Dynamic), stored along a hidden derivative axis of extent size+1.
//
// Views are cheap handles. Copies share storage; Assign, Subview and Const
// retain the shared memspace.Record and Release drops it. Layout, element
// family and const-ness mismatches have no callable assignment function, so
// they are rejected by the compiler. Shape and memory-space mismatches panic
// with a *ContractError.
package view
