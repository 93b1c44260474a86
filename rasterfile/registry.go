package rasterfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mrjoshuak/go-raster/raster"
)

// Header is the geometry and pixel type of a file, known before any pixels
// are decoded.
type Header struct {
	Width  int
	Height int
	Bands  int
	Format raster.BandFormat
	Coding raster.Coding
}

// PelSize returns the bytes in one decoded pixel.
func (h Header) PelSize() int {
	if h.Coding != raster.CodingNone {
		return 4
	}
	return h.Bands * h.Format.Size()
}

// ImageSize returns the bytes needed for the decoded, packed pixels.
func (h Header) ImageSize() int64 {
	return int64(h.PelSize()) * int64(h.Width) * int64(h.Height)
}

// Format is a file format known to the registry. A Format that implements
// Loader can be read; one that implements Saver can be written.
type Format interface {
	// Name is a short lower-case identifier such as "png".
	Name() string
	// Suffixes lists the filename extensions, with the dot.
	Suffixes() []string
}

// Loader reads a file format.
type Loader interface {
	Format
	// IsA reports whether head, the first bytes of a file, start a file of
	// this format.
	IsA(head []byte) bool
	// Header decodes the header only.
	Header(r io.ReaderAt, size int64) (Header, error)
	// Load decodes the pixels into dst, a packed buffer of h.ImageSize()
	// bytes.
	Load(r io.ReaderAt, size int64, h Header, dst []byte) error
}

// Saver writes a file format.
type Saver interface {
	Format
	Save(w io.Writer, r *raster.Raster) error
}

var (
	registryMu sync.RWMutex
	formats    []Format
)

// Register adds a format. Later registrations take precedence when two
// formats claim the same file.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	formats = append([]Format{f}, formats...)
}

// Formats returns the registered formats, most recent first.
func Formats() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]Format(nil), formats...)
}

func hasSuffix(f Format, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, s := range f.Suffixes() {
		if s == ext {
			return true
		}
	}
	return false
}

// findLoad picks the loader for a file, first by content, then by suffix.
func findLoad(filename string, head []byte) (Loader, error) {
	var bySuffix Loader
	for _, f := range Formats() {
		l, ok := f.(Loader)
		if !ok {
			continue
		}
		if l.IsA(head) {
			return l, nil
		}
		if bySuffix == nil && hasSuffix(l, filename) {
			bySuffix = l
		}
	}
	if bySuffix != nil {
		return bySuffix, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// FindLoad returns the loader for the file or URL at pathOrURL, sniffing
// its first bytes.
func FindLoad(pathOrURL string, opts ...ReadOption) (Loader, error) {
	o := newReadOptions(opts)
	src, err := openSource(pathOrURL, o)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head, err := readHead(src)
	if err != nil {
		return nil, err
	}
	return findLoad(pathOrURL, head)
}

// FindSave returns the saver for filename's suffix.
func FindSave(filename string) (Saver, error) {
	for _, f := range Formats() {
		if s, ok := f.(Saver); ok && hasSuffix(s, filename) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSave, filename)
}
