// Package bench times the view operations on the shapes described by a
// configuration.
package bench

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/kview/internal/config"
	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/fad"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
	"github.com/san-kum/kview/internal/view"
	"k8s.io/klog/v2"
)

// Metric names reported by Run. Timings are nanoseconds per repeat.
const (
	MetricFill          = "fill_ns"
	MetricDeepCopy      = "deep_copy_ns"
	MetricHadamard      = "hadamard_ns"
	MetricReduce        = "reduce_ns"
	MetricFadFill       = "fad_fill_ns"
	MetricFadCopy       = "fad_copy_ns"
	MetricTeamReduce    = "team_reduce_ns"
	MetricChecksumError = "checksum_error"
	MetricPeakBytes     = "peak_bytes"
	MetricLiveRecords   = "live_records"
)

type Result struct {
	Metrics   map[string]float64
	Snapshots []view.Snapshot
}

// Run allocates the bench views with the configured layout, memory space
// and execution space and times each operation over cfg.Bench.Repeats
// iterations. The snapshots hold the first row of the product view and of
// the copied fad view.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hs := cfg.MemorySpace()

	var (
		res *Result
		err error
	)
	switch cfg.LayoutKind() {
	case layout.Left:
		res, err = run[layout.LayoutLeft](ctx, cfg, hs)
	case layout.Stride:
		res, err = run[layout.LayoutStride](ctx, cfg, hs)
	default:
		res, err = run[layout.LayoutRight](ctx, cfg, hs)
	}
	if err != nil {
		return nil, err
	}
	res.Metrics[MetricPeakBytes] = float64(hs.Peak())
	res.Metrics[MetricLiveRecords] = float64(hs.Live())
	return res, nil
}

func timed(repeats int, fn func()) float64 {
	start := time.Now()
	for i := 0; i < repeats; i++ {
		fn()
	}
	return float64(time.Since(start).Nanoseconds()) / float64(repeats)
}

func run[L layout.Policy](ctx context.Context, cfg *config.Config, hs *memspace.HostSpace) (*Result, error) {
	log := klog.FromContext(ctx)

	sp := cfg.ExecSpace()
	dims := cfg.Bench.Dims
	repeats := max(cfg.Bench.Repeats, 1)
	opts := []view.Option{view.WithSpace(hs), view.WithExec(sp)}

	res := &Result{Metrics: map[string]float64{}}

	a, err := view.New[float64, L]("a", dims, opts...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	defer a.Release()
	b, err := view.New[float64, L]("b", dims, opts...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	defer b.Release()
	c, err := view.New[float64, L]("c", dims, append(opts, view.WithoutInitializing())...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	defer c.Release()

	bd := b.Data()
	exec.ParallelFor(sp, len(bd), func(i int) { bd[i] = float64(i%17) - 8 })

	res.Metrics[MetricFill] = timed(repeats, func() { a.Fill(1.5) })
	res.Metrics[MetricDeepCopy] = timed(repeats, func() { view.DeepCopy(c, a) })
	res.Metrics[MetricHadamard] = timed(repeats, func() { view.Hadamard(c, a, b) })

	var sum float64
	res.Metrics[MetricReduce] = timed(repeats, func() {
		sum = exec.ParallelReduce(sp, c.Span(), 0.0,
			func(i int, acc *float64) { *acc += c.Data()[i] },
			func(x, y float64) float64 { return x + y })
	})
	var want float64
	for _, x := range bd {
		want += 1.5 * x
	}
	res.Metrics[MetricChecksumError] = math.Abs(sum - want)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fadOpts := append(opts, view.WithDerivatives(cfg.Bench.Derivatives))
	src, err := view.NewFad[float64, L, fad.Dynamic]("fad_src", dims, fadOpts...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	defer src.Release()
	dst, err := view.NewFad[float64, L, fad.Dynamic]("fad_dst", dims, view.Like(src), view.WithDerivatives(src.DerivativeSize()), view.WithSpace(hs), view.WithExec(sp))
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	defer dst.Release()

	seed := fad.NewValue(2.0, src.DerivativeSize())
	for k := range seed.Dx {
		seed.Dx[k] = float64(k + 1)
	}
	res.Metrics[MetricFadFill] = timed(repeats, func() { src.FillValue(seed) })
	res.Metrics[MetricFadCopy] = timed(repeats, func() { view.DeepCopyFad(dst, src) })

	if dst.Size() > 0 {
		public := layout.MakeDims(dst.Dims()...)
		policy := exec.TeamPolicy{League: dst.Extent(0), TeamSize: dst.Size() / dst.Extent(0)}
		var total float64
		res.Metrics[MetricTeamReduce] = timed(repeats, func() {
			total = exec.TeamReduce(sp, policy, 0.0, func(m exec.Member, acc *float64) {
				idx := make([]int, public.Rank())
				layout.Unravel(public, m.Global(), idx)
				*acc += dst.Ref(idx...).Val()
			}, func(x, y float64) float64 { return x + y })
		})
		res.Metrics[MetricChecksumError] += math.Abs(total - 2*float64(dst.Size()))
	}

	res.Snapshots = []view.Snapshot{firstRow(c), firstRowFad(dst)}

	log.V(2).Info("bench finished", "dims", dims, "layout", layout.KindOf[L](), "exec", sp.Name(), "repeats", repeats)
	return res, nil
}

// rowSlices selects index 0 on every axis but the last.
func rowSlices(dims []int) ([]layout.Slice, bool) {
	if len(dims) == 0 {
		return nil, false
	}
	for _, d := range dims {
		if d == 0 {
			return nil, false
		}
	}
	s := make([]layout.Slice, len(dims))
	for i := range s {
		s[i] = layout.At(0)
	}
	s[len(s)-1] = layout.All()
	return s, true
}

func firstRow[L layout.Policy](v view.View[float64, L]) view.Snapshot {
	slices, ok := rowSlices(v.Dims())
	if !ok {
		return view.Take(v)
	}
	row := view.Subview(v, slices...)
	defer row.Release()
	return view.Take(row)
}

func firstRowFad[L layout.Policy](v view.FadView[float64, L, fad.Dynamic]) view.Snapshot {
	slices, ok := rowSlices(v.Dims())
	if !ok {
		return view.TakeFad(v)
	}
	row := view.SubviewFad(v, slices...)
	defer row.Release()
	return view.TakeFad(row)
}
