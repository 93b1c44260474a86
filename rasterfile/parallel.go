package rasterfile

import (
	"runtime"
	"sync"
)

// ParallelConfig controls how many goroutines encode and decode the chunks
// of native files.
type ParallelConfig struct {
	// NumWorkers is the number of goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of chunks per worker before work is
	// split at all.
	GrainSize int
}

// DefaultParallelConfig returns the default configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{GrainSize: 1}
}

var (
	parallelConfig   = DefaultParallelConfig()
	parallelConfigMu sync.RWMutex
)

// SetParallelConfig replaces the global configuration.
func SetParallelConfig(config ParallelConfig) {
	parallelConfigMu.Lock()
	defer parallelConfigMu.Unlock()
	parallelConfig = config
}

// GetParallelConfig returns the global configuration.
func GetParallelConfig() ParallelConfig {
	parallelConfigMu.RLock()
	defer parallelConfigMu.RUnlock()
	return parallelConfig
}

func effectiveWorkers(config ParallelConfig) int {
	if config.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return config.NumWorkers
}

// parallelFor runs fn(i) for i in [0, n), splitting the range into one
// contiguous block per worker. It returns the first error reported; the
// remaining items of a failing block are skipped.
func parallelFor(n int, fn func(i int) error) error {
	config := GetParallelConfig()
	workers := effectiveWorkers(config)

	if workers == 1 || n <= max(config.GrainSize, 1)*workers {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	block := (n + workers - 1) / workers
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := fn(i); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
			}
		}(start, end)
	}
	wg.Wait()
	return firstErr
}
