// Package rasterfile loads and saves rasters.
//
// Formats register themselves with Register; Read picks one by sniffing the
// first bytes of a file and falling back to its suffix, and Write picks one
// by suffix. Built in are the native ".v" format, which stores every band
// format and coding, plus PNG, TIFF, BMP and JPEG 2000 codestreams.
//
// Read only decodes the header. Pixels are decoded the first time the
// raster is made resident, into memory or, above DiscThreshold, into a
// memory-mapped temporary file that Close removes. Sources may be local
// paths or http and https URLs.
package rasterfile

import (
	"fmt"
	"io"
	"os"

	"github.com/valyala/fasthttp"

	"github.com/mrjoshuak/go-raster/raster"
)

type readOptions struct {
	memory bool
	mmap   bool
	client *fasthttp.Client
}

// ReadOption configures Read.
type ReadOption func(*readOptions)

// WithMemory decodes into memory regardless of the disc threshold.
func WithMemory() ReadOption {
	return func(o *readOptions) {
		o.memory = true
	}
}

// WithMmap maps local files into memory instead of reading them through
// the file handle. It has no effect on remote sources.
func WithMmap() ReadOption {
	return func(o *readOptions) {
		o.mmap = true
	}
}

// WithHTTPClient sets the client used for http and https sources.
func WithHTTPClient(c *fasthttp.Client) ReadOption {
	return func(o *readOptions) {
		o.client = c
	}
}

func newReadOptions(opts []ReadOption) *readOptions {
	o := &readOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ReadHeader returns the header of the file at pathOrURL without decoding
// pixels, along with the loader that understands it.
func ReadHeader(pathOrURL string, opts ...ReadOption) (Header, Loader, error) {
	o := newReadOptions(opts)
	src, err := openSource(pathOrURL, o)
	if err != nil {
		return Header{}, nil, err
	}
	defer src.Close()
	return readHeader(pathOrURL, src)
}

func readHeader(name string, src source) (Header, Loader, error) {
	head, err := readHead(src)
	if err != nil {
		return Header{}, nil, err
	}
	l, err := findLoad(name, head)
	if err != nil {
		return Header{}, nil, err
	}
	h, err := l.Header(src, src.Size())
	if err != nil {
		return Header{}, nil, &FormatError{Format: l.Name(), Filename: name, Err: err}
	}
	return h, l, nil
}

// Read opens the file or URL at pathOrURL. The header is read now; the
// pixels are decoded when the raster first becomes resident, which reopens
// the source. The caller must Close the raster to release any temporary
// file.
func Read(pathOrURL string, opts ...ReadOption) (*raster.Raster, error) {
	o := newReadOptions(opts)
	h, l, err := ReadHeader(pathOrURL, opts...)
	if err != nil {
		return nil, err
	}

	load := func() ([]byte, int, io.Closer, error) {
		return loadPixels(pathOrURL, o, l, h)
	}
	r, err := raster.NewDeferred(h.Width, h.Height, h.Bands, h.Format, h.Coding, load)
	if err != nil {
		return nil, &FormatError{Format: l.Name(), Filename: pathOrURL, Err: err}
	}
	raster.Logger().Debug("rasterfile: read header",
		"file", pathOrURL, "format", l.Name(),
		"width", h.Width, "height", h.Height, "bands", h.Bands, "band_format", h.Format)
	return r, nil
}

// loadPixels decodes the pixels of a file whose header is h.
func loadPixels(name string, o *readOptions, l Loader, h Header) ([]byte, int, io.Closer, error) {
	src, err := openSource(name, o)
	if err != nil {
		return nil, 0, nil, err
	}
	defer src.Close()

	size := h.ImageSize()
	var (
		buf    []byte
		closer io.Closer
	)
	if threshold := DiscThreshold(); !o.memory && threshold > 0 && size > threshold {
		d, err := newDiscBuffer(size)
		if err != nil {
			return nil, 0, nil, err
		}
		buf, closer = d.Bytes(), d
	} else {
		buf = make([]byte, size)
	}

	if err := l.Load(src, src.Size(), h, buf); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, 0, nil, &FormatError{Format: l.Name(), Filename: name, Err: err}
	}
	raster.Logger().Debug("rasterfile: decoded pixels", "file", name, "bytes", size)
	return buf, h.PelSize() * h.Width, closer, nil
}

// Write saves r to filename in the format its suffix names.
func Write(r *raster.Raster, filename string) error {
	s, err := FindSave(filename)
	if err != nil {
		return err
	}
	if err := raster.EnsureResident(r); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := s.Save(f, r); err != nil {
		f.Close()
		os.Remove(filename)
		return &FormatError{Format: s.Name(), Filename: filename, Err: err}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("rasterfile: %s: %w", filename, err)
	}
	return nil
}
