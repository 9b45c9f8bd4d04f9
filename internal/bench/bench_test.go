package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/kview/internal/config"
	"github.com/san-kum/kview/internal/memspace"
)

func smallConfig(layoutName, execName string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Exec = execName
	cfg.Threads = 4
	cfg.Layout = layoutName
	cfg.Bench = config.BenchConfig{Dims: []int{6, 5}, Derivatives: 2, Repeats: 2}
	return cfg
}

func TestRun(t *testing.T) {
	tests := []struct {
		layout string
		exec   string
	}{
		{"right", "serial"},
		{"left", "threads"},
		{"stride", "threads"},
	}

	for _, tt := range tests {
		t.Run(tt.layout+"/"+tt.exec, func(t *testing.T) {
			res, err := Run(context.Background(), smallConfig(tt.layout, tt.exec))
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			for _, name := range []string{MetricFill, MetricDeepCopy, MetricHadamard, MetricReduce, MetricFadFill, MetricFadCopy, MetricTeamReduce} {
				if _, ok := res.Metrics[name]; !ok {
					t.Errorf("missing metric %s", name)
				}
			}
			if res.Metrics[MetricChecksumError] != 0 {
				t.Errorf("checksum error %v", res.Metrics[MetricChecksumError])
			}
			if res.Metrics[MetricLiveRecords] != 0 {
				t.Errorf("%v records left live", res.Metrics[MetricLiveRecords])
			}
			if res.Metrics[MetricPeakBytes] <= 0 {
				t.Error("expected positive peak bytes")
			}

			if len(res.Snapshots) != 2 {
				t.Fatalf("expected 2 snapshots, got %d", len(res.Snapshots))
			}
			row, fadRow := res.Snapshots[0], res.Snapshots[1]
			if len(row.Dims) != 1 || row.Dims[0] != 5 {
				t.Errorf("unexpected row dims %v", row.Dims)
			}
			if err := row.Validate(); err != nil {
				t.Error(err)
			}
			if fadRow.DerivativeSize != 2 || len(fadRow.Values) != 15 {
				t.Errorf("unexpected fad row: %+v", fadRow)
			}
			if fadRow.Values[0] != 2 || fadRow.Values[1] != 1 || fadRow.Values[2] != 2 {
				t.Errorf("unexpected fad element %v", fadRow.Values[:3])
			}
		})
	}
}

func TestRun_Presets(t *testing.T) {
	cfg := config.GetPreset("small")
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Metrics[MetricChecksumError] != 0 {
		t.Errorf("checksum error %v", res.Metrics[MetricChecksumError])
	}
}

func TestRun_ZeroExtent(t *testing.T) {
	cfg := smallConfig("right", "serial")
	cfg.Bench.Dims = []int{0, 4}

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Snapshots[0].Values) != 0 {
		t.Errorf("expected empty snapshot, got %v", res.Snapshots[0].Values)
	}
}

func TestRun_NoDerivatives(t *testing.T) {
	cfg := smallConfig("right", "serial")
	cfg.Bench.Derivatives = 0

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := res.Snapshots[1].DerivativeSize; got != 0 {
		t.Errorf("expected no derivatives, got %d", got)
	}
}

func TestRun_MemoryLimit(t *testing.T) {
	cfg := smallConfig("right", "serial")
	cfg.MemoryLimit = 64

	_, err := Run(context.Background(), cfg)
	if !errors.Is(err, memspace.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestRun_Invalid(t *testing.T) {
	cfg := smallConfig("diagonal", "serial")
	if _, err := Run(context.Background(), cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, smallConfig("right", "serial")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
