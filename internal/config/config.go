package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/kview/internal/exec"
	"github.com/san-kum/kview/internal/layout"
	"github.com/san-kum/kview/internal/memspace"
	"gopkg.in/yaml.v3"
)

const (
	DefaultExec        = "threads"
	DefaultLayout      = "right"
	DefaultDerivatives = 3
	DefaultDataDir     = "runs"
	DefaultRepeats     = 5
)

// ErrInvalid marks a configuration that names an unknown space or layout.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Exec        string      `yaml:"exec"`
	Threads     int         `yaml:"threads"`
	MemoryLimit int64       `yaml:"memory_limit"`
	Layout      string      `yaml:"layout"`
	Derivatives int         `yaml:"derivatives"`
	DataDir     string      `yaml:"data_dir"`
	Bench       BenchConfig `yaml:"bench"`
}

// BenchConfig describes the views allocated by one bench run.
type BenchConfig struct {
	Dims        []int `yaml:"dims"`
	Derivatives int   `yaml:"derivatives"`
	Repeats     int   `yaml:"repeats"`
}

func DefaultConfig() *Config {
	return &Config{
		Exec:        DefaultExec,
		Layout:      DefaultLayout,
		Derivatives: DefaultDerivatives,
		DataDir:     DefaultDataDir,
		Bench: BenchConfig{
			Dims:        []int{256, 64},
			Derivatives: DefaultDerivatives,
			Repeats:     DefaultRepeats,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, ok := exec.ByName(c.Exec, c.Threads); !ok {
		return fmt.Errorf("%w: exec space %q", ErrInvalid, c.Exec)
	}
	if _, ok := layout.ParseKind(c.Layout); !ok {
		return fmt.Errorf("%w: layout %q", ErrInvalid, c.Layout)
	}
	if c.Threads < 0 || c.MemoryLimit < 0 {
		return fmt.Errorf("%w: negative threads or memory limit", ErrInvalid)
	}
	if c.Derivatives < 0 || c.Bench.Derivatives < 0 {
		return fmt.Errorf("%w: negative derivative count", ErrInvalid)
	}
	for _, d := range c.Bench.Dims {
		if d < 0 {
			return fmt.Errorf("%w: negative bench extent %d", ErrInvalid, d)
		}
	}
	if len(c.Bench.Dims) > layout.MaxRank-1 {
		return fmt.Errorf("%w: %d bench axes", ErrInvalid, len(c.Bench.Dims))
	}
	return nil
}

// ExecSpace returns the execution space named by the configuration,
// falling back to threads.
func (c *Config) ExecSpace() exec.Space {
	if s, ok := exec.ByName(c.Exec, c.Threads); ok {
		return s
	}
	return exec.NewThreads(c.Threads)
}

// MemorySpace returns a host space bounded by MemoryLimit.
func (c *Config) MemorySpace() *memspace.HostSpace {
	return memspace.NewHostSpace(c.MemoryLimit)
}

func (c *Config) LayoutKind() layout.Kind {
	k, ok := layout.ParseKind(c.Layout)
	if !ok {
		return layout.Right
	}
	return k
}
