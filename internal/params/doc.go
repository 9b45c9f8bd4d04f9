// Package params reads and writes parameter lists in a restricted YAML
// dialect.
//
// A list is an ordered set of named entries. Scalars are classified as they
// are read: quoted text is a string, unquoted text that parses as an integer
// is an Int, then a Double, then true or false is a Bool, and anything else
// is a String. Sequences become one- or two-dimensional arrays typed by
// their first element. The writer emits text that reads back to the same
// entry types.
package params
