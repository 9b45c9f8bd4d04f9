package view

import (
	"errors"
	"testing"

	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
)

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		if !errors.Is(err, target) {
			t.Fatalf("panic %v does not wrap %v", err, target)
		}
	}()
	fn()
}

func TestNew_AllocatesAndInitializes(t *testing.T) {
	h := memspace.NewHostSpace(0)
	v, err := New[float64, layout.LayoutRight]("a", []int{3, 4}, WithSpace(h), WithValue(2.5))
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if v.Span() != 12 || v.Rank() != 2 || !v.SpanIsContiguous() {
		t.Errorf("span %d rank %d contiguous %v", v.Span(), v.Rank(), v.SpanIsContiguous())
	}
	if h.InUse() != 12*8 {
		t.Errorf("in use %d", h.InUse())
	}
	if !v.Record().Initialized() {
		t.Error("record should be initialized")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			if v.At(i, j) != 2.5 {
				t.Fatalf("element (%d,%d) = %v", i, j, v.At(i, j))
			}
		}
	}

	v.Set(7, 2, 3)
	*v.Ref(0, 0) = 1
	if v.Data()[11] != 7 || v.Data()[0] != 1 {
		t.Error("right layout should place (2,3) last and (0,0) first")
	}

	v.Release()
	if h.InUse() != 0 || h.Live() != 0 {
		t.Errorf("after release in use %d live %d", h.InUse(), h.Live())
	}
}

func TestNew_ZeroExtent(t *testing.T) {
	v, err := New[float64, layout.LayoutLeft]("empty", []int{4, 0, 2})
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if v.Span() != 0 || v.Size() != 0 {
		t.Errorf("span %d size %d", v.Span(), v.Size())
	}
	if v.Record() == nil || v.Record().Initialized() {
		t.Error("empty allocation should have an unconstructed record")
	}

	f, err := NewFad[float64, layout.LayoutRight, fad.Static3]("empty", []int{0})
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if f.Span() != 0 || f.Record().Initialized() {
		t.Errorf("fad span %d", f.Span())
	}
}

func TestNew_OutOfMemory(t *testing.T) {
	h := memspace.NewHostSpace(64)
	_, err := New[float64, layout.LayoutRight]("big", []int{100}, WithSpace(h))
	if !errors.Is(err, memspace.ErrOutOfMemory) {
		t.Fatalf("expected out of memory, got %v", err)
	}
}

func TestNew_WithoutInitializing(t *testing.T) {
	v, err := New[int32, layout.LayoutLeft]("raw", []int{5}, WithoutInitializing())
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if v.Record().Initialized() {
		t.Error("record should not be initialized")
	}
}

func TestNew_RankTooLarge(t *testing.T) {
	expectPanic(t, ErrRankTooLarge, func() {
		_, _ = New[float64, layout.LayoutRight]("r9", []int{1, 1, 1, 1, 1, 1, 1, 1, 1})
	})
	expectPanic(t, ErrRankTooLarge, func() {
		_, _ = NewFad[float64, layout.LayoutRight, fad.Static1]("r8", []int{1, 1, 1, 1, 1, 1, 1, 1})
	})
}

func TestWrap_SpanTooSmall(t *testing.T) {
	expectPanic(t, ErrSpanTooSmall, func() {
		Wrap[float64, layout.LayoutLeft](make([]float64, 5), []int{2, 3})
	})
	expectPanic(t, ErrSpanTooSmall, func() {
		WrapFad[float64, layout.LayoutLeft, fad.Static2](make([]float64, 17), []int{2, 3})
	})
}

func TestNew_ConvertsNumericValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"untyped int", 1, 1},
		{"untyped float", 2.5, 2.5},
		{"int32", int32(-4), -4},
		{"uint8", uint8(7), 7},
		{"float32", float32(0.5), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New[float64, layout.LayoutRight]("v", []int{2, 2}, WithValue(tt.value))
			if err != nil {
				t.Fatal(err)
			}
			if v.At(1, 1) != tt.want {
				t.Errorf("At(1,1) = %v, want %v", v.At(1, 1), tt.want)
			}
		})
	}

	n, _ := New[int, layout.LayoutLeft]("n", []int{3}, WithValue(3.0))
	if n.At(2) != 3 {
		t.Errorf("int view At(2) = %d", n.At(2))
	}

	expectPanic(t, ErrInvalidValue, func() {
		New[float64, layout.LayoutRight]("s", []int{2}, WithValue("one"))
	})
}

func TestView_PastRankAccessors(t *testing.T) {
	v := Wrap[float64, layout.LayoutLeft](make([]float64, 6), []int{2, 3})
	if v.Extent(5) != 1 || v.Stride(5) != 0 {
		t.Errorf("extent %d stride %d past rank", v.Extent(5), v.Stride(5))
	}
	if v.Extent(-1) != 1 || v.Stride(-1) != 0 {
		t.Errorf("extent %d stride %d below rank", v.Extent(-1), v.Stride(-1))
	}
	if v.Stride(0) != 1 || v.Stride(1) != 2 {
		t.Errorf("left strides %d %d", v.Stride(0), v.Stride(1))
	}

	var zero View[float64, layout.LayoutRight]
	if zero.Rank() != 0 || zero.Span() != 0 || zero.Extent(0) != 1 {
		t.Error("zero view should report empty defaults")
	}
}

func TestView_IndexOutOfRange(t *testing.T) {
	v := Wrap[float64, layout.LayoutRight](make([]float64, 6), []int{2, 3})
	expectPanic(t, layout.ErrIndexOutOfRange, func() { v.At(2, 0) })
	expectPanic(t, layout.ErrRankMismatch, func() { v.At(1) })
}

func TestView_FillNonContiguous(t *testing.T) {
	data := make([]float64, 20)
	v := Wrap[float64, layout.LayoutStride](data, []int{2, 3}, WithStrides(10, 2))
	v.Fill(4)
	want := map[int]bool{0: true, 2: true, 4: true, 10: true, 12: true, 14: true}
	for i, x := range data {
		if want[i] != (x == 4) {
			t.Fatalf("slot %d = %v", i, x)
		}
	}
}

func TestConst_SharesStorage(t *testing.T) {
	v, _ := New[float64, layout.LayoutRight]("c", []int{4})
	c := v.Const()
	if v.Record().RefCount() != 2 {
		t.Errorf("ref count %d", v.Record().RefCount())
	}
	v.Set(3, 1)
	if c.At(1) != 3 {
		t.Error("const view should see writes through the mutable view")
	}
	c.Release()
	if v.Record().RefCount() != 1 {
		t.Errorf("ref count after release %d", v.Record().RefCount())
	}
}

func TestThreadsAndSerialReductionsAgree(t *testing.T) {
	v, err := New[float64, layout.LayoutLeft]("sum", []int{100, 5}, WithExec(exec.NewThreads(4)))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		for j := 0; j < 5; j++ {
			v.Set(float64(i*5+j), i, j)
		}
	}

	sum := func(s exec.Space) float64 {
		return exec.ParallelReduce(s, 100, 0.0, func(i int, acc *float64) {
			for j := 0; j < 5; j++ {
				*acc += v.At(i, j)
			}
		}, func(a, b float64) float64 { return a + b })
	}
	serial := sum(exec.Serial{})
	threaded := sum(exec.NewThreads(8))
	if serial != threaded || serial != 499*500/2 {
		t.Errorf("serial %v threaded %v", serial, threaded)
	}

	team := exec.TeamReduce(exec.NewThreads(3), exec.TeamPolicy{League: 100, TeamSize: 5}, 0.0,
		func(m exec.Member, acc *float64) { *acc += v.At(m.LeagueRank, m.TeamRank) },
		func(a, b float64) float64 { return a + b })
	if team != serial {
		t.Errorf("team reduce %v, serial %v", team, serial)
	}
}
