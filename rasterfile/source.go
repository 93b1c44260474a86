package rasterfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// headSize is the number of leading bytes passed to Loader.IsA.
const headSize = 64

// source is random access to the bytes of a local or remote file.
type source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// openSource opens a path or an http(s) URL.
func openSource(pathOrURL string, o *readOptions) (source, error) {
	if isURL(pathOrURL) {
		return openHTTPSource(pathOrURL, o.client)
	}

	f, err := os.Open(pathOrURL)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, pathOrURL)
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, pathOrURL)
	}
	if o.mmap {
		return mapFile(f, info.Size())
	}
	return &fileSource{File: f, size: info.Size()}, nil
}

// readHead returns up to headSize leading bytes.
func readHead(src source) ([]byte, error) {
	head := make([]byte, min(int64(headSize), src.Size()))
	if _, err := src.ReadAt(head, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head, nil
}

// eofIfShort returns io.EOF when a ReadAt filled fewer than want bytes,
// as io.ReaderAt requires.
func eofIfShort(n, want int) error {
	if n < want {
		return io.EOF
	}
	return nil
}
