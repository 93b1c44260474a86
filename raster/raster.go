// Package raster provides in-memory rasters and the operations that paint
// into them.
//
// A Raster is a rectangular, row-major, band-interleaved pixel buffer with a
// numeric band format and a coding. Its geometry and format never change after
// construction; drawing operations only overwrite pixel bytes in place.
//
// Pixel data may be deferred: a raster created with NewDeferred loads its
// buffer the first time EnsureResident (or View) is called. Operations that
// address pixels directly always go through a bounds-checked View.
package raster

import (
	"io"
	"sync"
)

// LoadFunc supplies the pixel buffer of a deferred raster. It returns the
// buffer, its row stride in bytes and an optional closer that releases the
// backing store when the raster is closed.
type LoadFunc func() (pix []byte, stride int, closer io.Closer, err error)

// Raster is a rectangular pixel buffer.
type Raster struct {
	width  int
	height int
	bands  int
	format BandFormat
	coding Coding

	stride int
	pix    []byte

	mu      sync.Mutex
	load    LoadFunc
	loadErr error
	closer  io.Closer
	pool    *BufferPool
}

// New creates a zero-filled uncoded raster.
func New(width, height, bands int, format BandFormat) (*Raster, error) {
	r, err := newHeader(width, height, bands, format, CodingNone)
	if err != nil {
		return nil, err
	}
	r.stride = r.LineSize()
	r.pix = make([]byte, r.stride*height)
	return r, nil
}

// NewCoded creates a zero-filled raster in a coding other than CodingNone.
// Coded rasters always hold four bytes per pixel.
func NewCoded(width, height int, coding Coding) (*Raster, error) {
	if coding == CodingNone || !IsKnownCoding(coding) {
		return nil, ErrIncompatibleCoding
	}
	r, err := newHeader(width, height, codedPelSize, FormatUChar, coding)
	if err != nil {
		return nil, err
	}
	r.stride = r.LineSize()
	r.pix = make([]byte, r.stride*height)
	return r, nil
}

// NewFromBytes wraps an existing buffer. stride is the distance in bytes
// between the starts of consecutive rows and must be at least LineSize.
// The raster takes ownership of pix.
func NewFromBytes(width, height, bands int, format BandFormat, coding Coding, stride int, pix []byte) (*Raster, error) {
	r, err := newHeader(width, height, bands, format, coding)
	if err != nil {
		return nil, err
	}
	if err := r.checkBuffer(pix, stride); err != nil {
		return nil, err
	}
	r.stride = stride
	r.pix = pix
	return r, nil
}

// NewDeferred creates a raster whose pixels are produced by load on first
// access. The header is fixed now; load must return a buffer matching it.
func NewDeferred(width, height, bands int, format BandFormat, coding Coding, load LoadFunc) (*Raster, error) {
	r, err := newHeader(width, height, bands, format, coding)
	if err != nil {
		return nil, err
	}
	r.load = load
	return r, nil
}

func newHeader(width, height, bands int, format BandFormat, coding Coding) (*Raster, error) {
	if width < 0 || height < 0 || bands < 1 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if !IsKnownCoding(coding) {
		return nil, ErrIncompatibleCoding
	}
	if coding != CodingNone && (bands != codedPelSize || format != FormatUChar) {
		return nil, ErrInvalidFormat
	}
	return &Raster{
		width:  width,
		height: height,
		bands:  bands,
		format: format,
		coding: coding,
	}, nil
}

func (r *Raster) checkBuffer(pix []byte, stride int) error {
	if stride < r.LineSize() {
		return ErrInvalidDimensions
	}
	if r.height > 0 && len(pix) < (r.height-1)*stride+r.LineSize() {
		return ErrInvalidDimensions
	}
	return nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Bands returns the number of interleaved samples per pixel.
func (r *Raster) Bands() int { return r.bands }

// Format returns the numeric type of each sample.
func (r *Raster) Format() BandFormat { return r.format }

// Coding returns the pixel coding.
func (r *Raster) Coding() Coding { return r.coding }

// Bounds returns the raster's extent with its origin at (0, 0).
func (r *Raster) Bounds() Rect {
	return Rect{Width: r.width, Height: r.height}
}

// PelSize returns the number of bytes in one pixel.
func (r *Raster) PelSize() int {
	if r.coding != CodingNone {
		return codedPelSize
	}
	return r.bands * r.format.Size()
}

// LineSize returns the number of pixel bytes in one row, excluding padding.
func (r *Raster) LineSize() int {
	return r.PelSize() * r.width
}

// ImageSize returns the number of pixel bytes in a packed copy of the raster.
func (r *Raster) ImageSize() int64 {
	return int64(r.LineSize()) * int64(r.height)
}

// Stride returns the row stride in bytes. It is zero until the raster is
// resident.
func (r *Raster) Stride() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stride
}

// IsResident reports whether the pixel buffer is loaded.
func (r *Raster) IsResident() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load == nil && r.loadErr == nil
}

// Bytes returns the pixel buffer, or nil if the raster is not resident.
// Rows start every Stride bytes.
func (r *Raster) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pix
}

// Close releases any backing store attached by a deferred loader or a
// buffer pool. The raster must not be used afterwards.
func (r *Raster) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool != nil && r.pix != nil {
		r.pool.Put(r.pix)
		r.pool = nil
	}
	r.pix = nil
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// derive returns a zero-filled packed raster with r's geometry and coding but
// the given bands and format. The buffer comes from pool when non-nil.
func (r *Raster) derive(bands int, format BandFormat, pool *BufferPool) (*Raster, error) {
	out, err := newHeader(r.width, r.height, bands, format, r.coding)
	if err != nil {
		return nil, err
	}
	out.stride = out.LineSize()
	size := out.stride * out.height
	if pool == nil {
		out.pix = make([]byte, size)
		return out, nil
	}
	buf, err := pool.GetWithError(size)
	if err != nil {
		return nil, err
	}
	clear(buf)
	out.pix = buf
	out.pool = pool
	return out, nil
}
