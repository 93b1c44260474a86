package rasterfile

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// DefaultDiscThreshold is the decoded size above which pixels go to a
// temporary file instead of memory.
const DefaultDiscThreshold = 100 << 20

var discThreshold atomic.Int64

func init() {
	discThreshold.Store(DefaultDiscThreshold)
}

// SetDiscThreshold sets the decoded size in bytes above which Read
// decodes into a memory-mapped temporary file. Zero keeps every image in
// memory. It returns the previous value.
func SetDiscThreshold(n int64) int64 {
	if n < 0 {
		n = 0
	}
	return discThreshold.Swap(n)
}

// DiscThreshold returns the current disc threshold.
func DiscThreshold() int64 {
	return discThreshold.Load()
}

// ParseSize parses a byte count with an optional k, m or g suffix (powers
// of 1024), optionally followed by "b": "512", "64k", "100M", "2gb".
func ParseSize(s string) (int64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "b")

	shift := 0
	if n := len(v); n > 0 {
		switch v[n-1] {
		case 'k':
			shift = 10
		case 'm':
			shift = 20
		case 'g':
			shift = 30
		}
		if shift != 0 {
			v = v[:n-1]
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("rasterfile: bad size %q", s)
	}
	if n > (1<<62)>>shift {
		return 0, fmt.Errorf("rasterfile: size %q too large", s)
	}
	return n << shift, nil
}
