package layout

import (
	"fmt"
	"strings"
)

// MaxRank is the largest number of axes an offset can carry, including the
// derivative axis of a fad view.
const MaxRank = 8

// Dims is an ordered, fixed-arity list of extents. Axes marked static were
// fixed when the shape was declared and must match on assignment.
type Dims struct {
	ext    [MaxRank]int
	rank   int
	static uint8
}

// MakeDims returns runtime extents for the given axes.
func MakeDims(extents ...int) Dims {
	if len(extents) > MaxRank {
		panic(fmt.Sprintf("layout: rank %d exceeds maximum %d", len(extents), MaxRank))
	}
	var d Dims
	for i, e := range extents {
		if e < 0 {
			panic(fmt.Sprintf("layout: negative extent %d on axis %d", e, i))
		}
		d.ext[i] = e
	}
	d.rank = len(extents)
	return d
}

// Fix marks axes as static.
func (d Dims) Fix(axes ...int) Dims {
	for _, a := range axes {
		if a < 0 || a >= d.rank {
			panic(fmt.Sprintf("layout: cannot fix axis %d of rank %d shape", a, d.rank))
		}
		d.static |= 1 << uint(a)
	}
	return d
}

func (d Dims) Rank() int { return d.rank }

// Extent returns the extent of axis r, or 1 past the rank.
func (d Dims) Extent(r int) int {
	if r < 0 || r >= d.rank {
		return 1
	}
	return d.ext[r]
}

// IsStatic reports whether axis r was fixed at declaration.
func (d Dims) IsStatic(r int) bool {
	if r < 0 || r >= d.rank {
		return false
	}
	return d.static&(1<<uint(r)) != 0
}

// Size is the number of index tuples.
func (d Dims) Size() int {
	n := 1
	for i := 0; i < d.rank; i++ {
		n *= d.ext[i]
	}
	return n
}

func (d Dims) Slice() []int {
	out := make([]int, d.rank)
	copy(out, d.ext[:d.rank])
	return out
}

// Append returns the shape with one more trailing axis.
func (d Dims) Append(n int) Dims {
	if d.rank == MaxRank {
		panic("layout: cannot append axis to rank 8 shape")
	}
	d.ext[d.rank] = n
	d.rank++
	return d
}

// Prepend returns the shape with one more leading axis.
func (d Dims) Prepend(n int) Dims {
	if d.rank == MaxRank {
		panic("layout: cannot prepend axis to rank 8 shape")
	}
	var out Dims
	out.ext[0] = n
	copy(out.ext[1:], d.ext[:d.rank])
	out.rank = d.rank + 1
	out.static = d.static << 1
	return out
}

// Assignable reports whether a view of shape src may be viewed through dst:
// equal rank, and every static axis of dst matches src exactly.
func (d Dims) Assignable(src Dims) bool {
	if d.rank != src.rank {
		return false
	}
	for i := 0; i < d.rank; i++ {
		if d.IsStatic(i) && d.ext[i] != src.ext[i] {
			return false
		}
	}
	return true
}

func (d Dims) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < d.rank; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", d.ext[i])
	}
	b.WriteByte(']')
	return b.String()
}

// WithStatic returns d carrying the static axis mask of other.
func (d Dims) WithStatic(other Dims) Dims {
	d.static = other.static
	return d
}
