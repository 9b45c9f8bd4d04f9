package exec

import (
	"fmt"
	"runtime"
	"sync"
)

// Threads splits loops across goroutines, one chunk per worker.
type Threads struct {
	workers int
}

// NewThreads returns a space with the given number of workers; zero or
// negative means runtime.NumCPU.
func NewThreads(workers int) *Threads {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Threads{workers: workers}
}

func (t *Threads) Name() string     { return fmt.Sprintf("threads(%d)", t.workers) }
func (t *Threads) Concurrency() int { return t.workers }

func (t *Threads) RangeFor(n, minChunk int, fn func(begin, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || t.workers <= 1 {
		fn(0, n)
		return
	}

	workers := t.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
