package raster

import (
	"sync"
	"sync/atomic"
)

// MemoryLimitExceededError is returned when an intermediate raster would
// push the pool past its memory limit.
type MemoryLimitExceededError struct {
	Requested int64
	Current   int64
	Limit     int64
}

func (e *MemoryLimitExceededError) Error() string {
	return "raster: memory limit exceeded"
}

// BufferPool recycles the pixel buffers of short-lived intermediate rasters,
// such as the converted sub-image of a paint. It can cap the bytes it hands
// out at once.
type BufferPool struct {
	classes     []*sync.Pool
	memoryUsed  atomic.Int64
	memoryLimit atomic.Int64
	gets        atomic.Int64
	hits        atomic.Int64
	misses      atomic.Int64
}

// sizeClasses are the capacities of pooled buffers. Larger requests are
// allocated directly and dropped on Put.
var sizeClasses = []int{
	4 << 10,
	64 << 10,
	256 << 10,
	1 << 20,
	4 << 20,
	16 << 20,
}

var globalBufferPool = NewBufferPool(0)

// NewBufferPool creates a pool. A limit of 0 means unlimited.
func NewBufferPool(limit int64) *BufferPool {
	p := &BufferPool{classes: make([]*sync.Pool, len(sizeClasses))}
	p.memoryLimit.Store(limit)
	for i := range sizeClasses {
		p.classes[i] = &sync.Pool{}
	}
	return p
}

// SetMemoryLimit changes the limit and returns the previous one.
func (p *BufferPool) SetMemoryLimit(limit int64) int64 {
	return p.memoryLimit.Swap(limit)
}

// MemoryLimit returns the current limit (0 = unlimited).
func (p *BufferPool) MemoryLimit() int64 {
	return p.memoryLimit.Load()
}

// MemoryUsed returns the bytes currently handed out.
func (p *BufferPool) MemoryUsed() int64 {
	return p.memoryUsed.Load()
}

// Stats returns the number of Get calls, pool hits and misses.
func (p *BufferPool) Stats() (gets, hits, misses int64) {
	return p.gets.Load(), p.hits.Load(), p.misses.Load()
}

func classIndex(size int) int {
	for i, s := range sizeClasses {
		if size <= s {
			return i
		}
	}
	return -1
}

// GetWithError returns a buffer of exactly size bytes. Its contents are
// unspecified. It fails if the memory limit would be exceeded.
func (p *BufferPool) GetWithError(size int) ([]byte, error) {
	p.gets.Add(1)

	idx := classIndex(size)
	capacity := size
	if idx >= 0 {
		capacity = sizeClasses[idx]
	}

	if limit := p.memoryLimit.Load(); limit > 0 {
		current := p.memoryUsed.Load()
		if current+int64(capacity) > limit {
			return nil, &MemoryLimitExceededError{
				Requested: int64(size),
				Current:   current,
				Limit:     limit,
			}
		}
	}
	p.memoryUsed.Add(int64(capacity))

	if idx < 0 {
		p.misses.Add(1)
		return make([]byte, size), nil
	}
	if v := p.classes[idx].Get(); v != nil {
		p.hits.Add(1)
		buf := *(v.(*[]byte))
		return buf[:size], nil
	}
	p.misses.Add(1)
	return make([]byte, size, capacity), nil
}

// Put returns a buffer obtained from GetWithError.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	c := cap(buf)
	idx := classIndex(c)
	if idx < 0 || sizeClasses[idx] != c {
		p.memoryUsed.Add(-int64(len(buf)))
		return
	}
	p.memoryUsed.Add(-int64(c))
	buf = buf[:c]
	p.classes[idx].Put(&buf)
}

// SetGlobalMemoryLimit sets the limit of the pool used for paint
// intermediates and returns the previous limit.
func SetGlobalMemoryLimit(limit int64) int64 {
	return globalBufferPool.SetMemoryLimit(limit)
}

// GlobalMemoryUsed returns the bytes currently held by paint intermediates.
func GlobalMemoryUsed() int64 {
	return globalBufferPool.MemoryUsed()
}

// GlobalPoolStats returns statistics for the intermediate buffer pool.
func GlobalPoolStats() (gets, hits, misses int64) {
	return globalBufferPool.Stats()
}
