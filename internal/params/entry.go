package params

import "fmt"

// Entry is one parameter value: Int, Double, String, Bool, an Array or
// TwoDArray of int, float64 or string, or a nested *List.
type Entry interface {
	isEntry()
}

type (
	Int    int
	Double float64
	String string
	Bool   bool
)

// Elem is the element type of arrays.
type Elem interface {
	int | float64 | string
}

// Array is a one-dimensional array entry.
type Array[E Elem] []E

// TwoDArray is a rectangular two-dimensional array entry stored row-major.
type TwoDArray[E Elem] struct {
	Rows, Cols int
	Data       []E
}

// NewTwoDArray builds a TwoDArray from rows, which must all have the same
// length.
func NewTwoDArray[E Elem](rows [][]E) (TwoDArray[E], error) {
	a := TwoDArray[E]{Rows: len(rows)}
	if len(rows) == 0 {
		return a, nil
	}
	a.Cols = len(rows[0])
	a.Data = make([]E, 0, a.Rows*a.Cols)
	for i, r := range rows {
		if len(r) != a.Cols {
			return TwoDArray[E]{}, fmt.Errorf("row %d has %d columns, row 0 has %d", i, len(r), a.Cols)
		}
		a.Data = append(a.Data, r...)
	}
	return a, nil
}

func (a TwoDArray[E]) At(i, j int) E { return a.Data[i*a.Cols+j] }

// Row returns row i, sharing storage.
func (a TwoDArray[E]) Row(i int) []E { return a.Data[i*a.Cols : (i+1)*a.Cols] }

func (Int) isEntry()          {}
func (Double) isEntry()       {}
func (String) isEntry()       {}
func (Bool) isEntry()         {}
func (Array[E]) isEntry()     {}
func (TwoDArray[E]) isEntry() {}
func (*List) isEntry()        {}

// TypeName names the variant held by e.
func TypeName(e Entry) string {
	switch e.(type) {
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Array[int]:
		return "Array(int)"
	case Array[float64]:
		return "Array(double)"
	case Array[string]:
		return "Array(string)"
	case TwoDArray[int]:
		return "TwoDArray(int)"
	case TwoDArray[float64]:
		return "TwoDArray(double)"
	case TwoDArray[string]:
		return "TwoDArray(string)"
	case *List:
		return "ParameterList"
	}
	return fmt.Sprintf("%T", e)
}
