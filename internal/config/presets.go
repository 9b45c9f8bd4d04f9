package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		Exec: "serial", Layout: "right", Derivatives: 2, DataDir: DefaultDataDir,
		Bench: BenchConfig{Dims: []int{32, 8}, Derivatives: 2, Repeats: 3},
	},
	"wide": {
		Exec: "threads", Layout: "right", Derivatives: 8, DataDir: DefaultDataDir,
		Bench: BenchConfig{Dims: []int{1024, 256}, Derivatives: 8, Repeats: 5},
	},
	"left": {
		Exec: "threads", Layout: "left", Derivatives: 4, DataDir: DefaultDataDir,
		Bench: BenchConfig{Dims: []int{512, 128}, Derivatives: 4, Repeats: 5},
	},
	"cube": {
		Exec: "threads", Layout: "right", Derivatives: 3, DataDir: DefaultDataDir,
		Bench: BenchConfig{Dims: []int{64, 64, 64}, Derivatives: 3, Repeats: 3},
	},
	"bounded": {
		Exec: "threads", Layout: "right", Derivatives: 3, DataDir: DefaultDataDir,
		MemoryLimit: 64 << 20,
		Bench:       BenchConfig{Dims: []int{256, 64}, Derivatives: 3, Repeats: 5},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bench.Dims = append([]int(nil), p.Bench.Dims...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
