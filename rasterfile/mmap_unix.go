//go:build unix

package rasterfile

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// mapSource reads a local file through a read-only mapping.
type mapSource struct {
	data []byte
	file *os.File
}

// mapFile maps f, which is size bytes long. The source owns f.
func mapFile(f *os.File, size int64) (source, error) {
	if size == 0 {
		return &mapSource{file: f}, nil
	}
	if size != int64(int(size)) {
		f.Close()
		return nil, fmt.Errorf("rasterfile: cannot map %d bytes", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rasterfile: mmap %s: %w", f.Name(), err)
	}
	return &mapSource{data: data, file: f}, nil
}

func (m *mapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("rasterfile: negative offset %d", off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	return n, eofIfShort(n, len(p))
}

func (m *mapSource) Size() int64 {
	return int64(len(m.data))
}

// Close unmaps the file and closes it.
func (m *mapSource) Close() error {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return err
		}
		m.data = nil
	}
	if m.file != nil {
		err := m.file.Close()
		m.file = nil
		return err
	}
	return nil
}
