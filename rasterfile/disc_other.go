//go:build !unix

package rasterfile

import (
	"fmt"

	"github.com/mrjoshuak/go-raster/raster"
)

// discBuffer falls back to memory where mmap is unavailable.
type discBuffer struct {
	data []byte
}

func newDiscBuffer(size int64) (*discBuffer, error) {
	if size <= 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("rasterfile: cannot allocate %d bytes", size)
	}
	raster.Logger().Warn("rasterfile: no mmap on this platform, decoding to memory", "bytes", size)
	return &discBuffer{data: make([]byte, size)}, nil
}

func (d *discBuffer) Bytes() []byte {
	return d.data
}

func (d *discBuffer) Close() error {
	d.data = nil
	return nil
}
