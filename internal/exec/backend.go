// Package exec provides the execution spaces that run element construction
// and user loops over views.
package exec

import "sync"

// Space runs index ranges, possibly concurrently.
type Space interface {
	Name() string
	Concurrency() int
	// RangeFor splits [0, n) into chunks of at least minChunk indices and
	// calls fn once per chunk. It returns when every chunk is done.
	RangeFor(n, minChunk int, fn func(begin, end int))
}

var (
	mu            sync.RWMutex
	activeBackend Space = NewThreads(0)
)

// SetDefault replaces the space used when callers do not pick one.
func SetDefault(s Space) {
	mu.Lock()
	defer mu.Unlock()
	activeBackend = s
}

func Default() Space {
	mu.RLock()
	defer mu.RUnlock()
	return activeBackend
}

// ByName returns the space for a configuration name.
func ByName(name string, threads int) (Space, bool) {
	switch name {
	case "serial":
		return Serial{}, true
	case "threads", "":
		return NewThreads(threads), true
	}
	return nil, false
}

// Serial runs every loop inline.
type Serial struct{}

func (Serial) Name() string     { return "serial" }
func (Serial) Concurrency() int { return 1 }

func (Serial) RangeFor(n, minChunk int, fn func(begin, end int)) {
	if n > 0 {
		fn(0, n)
	}
}
