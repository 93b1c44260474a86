//go:build !unix

package rasterfile

import "os"

// mapFile reads through the file handle where mmap is unavailable.
func mapFile(f *os.File, size int64) (source, error) {
	return &fileSource{File: f, size: size}, nil
}
