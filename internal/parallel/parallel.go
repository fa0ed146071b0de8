// Package parallel provides the worker fan-out used to compute per-example
// gradients and costs of a mini-batch concurrently.
package parallel

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use; <= 0 means runtime.NumCPU().
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
//
// A single example's backprop is expensive compared to goroutine startup, so
// the minimum chunk is a handful of examples rather than a cache line.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{}
}

func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < max(cfg.MinChunkSize, 2) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.workers()-1)/cfg.workers(), cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForErr executes f(i) for i in [0, n) and returns the first error
// encountered.
//
// Sequentially, iteration stops at the first error. In parallel, workers
// skip the items they have not started once any item has failed; which
// error is reported first is then scheduling dependent.
func ForErr(n int, f func(i int) error, cfg Config) error {
	var (
		failed   atomic.Bool
		firstErr atomic.Error
	)

	For(n, func(i int) {
		if failed.Load() {
			return
		}
		if err := f(i); err != nil && failed.CompareAndSwap(false, true) {
			firstErr.Store(err)
		}
	}, cfg)

	return firstErr.Load()
}

// Sum returns Σ f(i) for i in [0, n).
//
// In parallel the additions happen in scheduling order, so the result is
// only reproducible up to floating-point summation order.
func Sum(n int, f func(i int) (float64, error), cfg Config) (float64, error) {
	var total atomic.Float64

	err := ForErr(n, func(i int) error {
		v, err := f(i)
		if err != nil {
			return err
		}
		total.Add(v)
		return nil
	}, cfg)
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}
