// Package parallel provides the chunked worker loop used for parallel
// materialization of array expressions.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096, // Elements per worker before spawning pays off.
	}
}

// Chunks splits [0, n) into contiguous ranges and calls f(lo, hi) for each,
// one goroutine per range. Falls back to a single f(0, n) call if
// parallelism is disabled or n is too small to split.
func Chunks(n int, cfg Config, f func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := cfg.NumWorkers
	if !cfg.Enabled || workers <= 1 || n < 2*cfg.MinChunkSize {
		// Sequential fallback.
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n) with optional parallelism.
func For(n int, f func(i int), cfg Config) {
	Chunks(n, cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(i)
		}
	})
}
