//go:build unix

package rasterfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/mrjoshuak/go-raster/raster"
)

// discBuffer is a temporary file mapped read/write into memory.
type discBuffer struct {
	data []byte
	file *os.File
}

// newDiscBuffer creates a zero-filled temporary file of size bytes and
// maps it. Close unmaps and removes the file.
func newDiscBuffer(size int64) (*discBuffer, error) {
	if size <= 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("rasterfile: cannot map %d bytes", size)
	}

	f, err := os.CreateTemp("", "raster-*.tmp")
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("rasterfile: mmap %s: %w", f.Name(), err)
	}

	raster.Logger().Info("rasterfile: decoding to disc", "file", f.Name(), "bytes", size)
	return &discBuffer{data: data, file: f}, nil
}

// Bytes returns the mapped memory.
func (d *discBuffer) Bytes() []byte {
	return d.data
}

// Close unmaps the memory and deletes the file.
func (d *discBuffer) Close() error {
	var firstErr error
	if d.data != nil {
		if err := unix.Munmap(d.data); err != nil {
			firstErr = err
		}
		d.data = nil
	}
	if d.file != nil {
		name := d.file.Name()
		if err := d.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := os.Remove(name); err != nil {
			raster.Logger().Warn("rasterfile: cannot remove temporary file", "file", name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		d.file = nil
	}
	return firstErr
}
