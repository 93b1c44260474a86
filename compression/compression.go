// Package compression implements the chunk codecs of the native raster
// file format.
//
// A chunk is a band-interleaved block of whole rows. Every codec is
// lossless: Decompress reproduces the bytes given to Compress exactly.
package compression

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors
var (
	ErrUnknownMethod = errors.New("compression: unknown method")
	ErrUnsupported   = errors.New("compression: layout not supported by method")
	ErrSizeMismatch  = errors.New("compression: decompressed size mismatch")
)

// Method identifies a chunk codec. The values are stored in file headers.
type Method uint8

const (
	// None stores pixel bytes unchanged.
	None Method = 0
	// RLE is byte-oriented run-length encoding.
	RLE Method = 1
	// ZIP is deflate over byte planes with a differencing predictor.
	ZIP Method = 2
	// HTJ2K is lossless high-throughput JPEG 2000, one codestream per band.
	// It needs 8- or 16-bit samples.
	HTJ2K Method = 3
)

var methodNames = [...]string{
	None:  "none",
	RLE:   "rle",
	ZIP:   "zip",
	HTJ2K: "htj2k",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// IsValid reports whether m names a known codec.
func (m Method) IsValid() bool {
	return int(m) < len(methodNames)
}

// ParseMethod returns the method with the given name.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Layout describes the pixels of one chunk.
type Layout struct {
	Width      int // pixels per row
	Rows       int
	Bands      int // samples per pixel
	SampleSize int // bytes per sample
}

// RowSize returns the bytes in one packed row.
func (l Layout) RowSize() int {
	return l.Width * l.Bands * l.SampleSize
}

// Size returns the bytes in the whole chunk.
func (l Layout) Size() int {
	return l.RowSize() * l.Rows
}

// Supports returns nil if m can encode chunks of layout l.
func (m Method) Supports(l Layout) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
	}
	if m == HTJ2K && l.SampleSize != 1 && l.SampleSize != 2 {
		return fmt.Errorf("%w: %s needs 1- or 2-byte samples, got %d", ErrUnsupported, m, l.SampleSize)
	}
	return nil
}

// Compress encodes one chunk. src must hold l.Size() bytes. For None the
// result aliases src.
func Compress(m Method, src []byte, l Layout) ([]byte, error) {
	if err := m.Supports(l); err != nil {
		return nil, err
	}
	if len(src) != l.Size() {
		return nil, fmt.Errorf("%w: have %d bytes for %d", ErrSizeMismatch, len(src), l.Size())
	}

	switch m {
	case RLE:
		return RLECompress(src), nil
	case ZIP:
		return ZIPCompress(src, l.SampleSize)
	case HTJ2K:
		return HTJ2KCompress(src, l)
	default:
		return src, nil
	}
}

// Decompress decodes one chunk into dst, which must be l.Size() bytes.
func Decompress(m Method, src, dst []byte, l Layout) error {
	if err := m.Supports(l); err != nil {
		return err
	}
	if len(dst) != l.Size() {
		return fmt.Errorf("%w: have %d bytes for %d", ErrSizeMismatch, len(dst), l.Size())
	}

	switch m {
	case RLE:
		return RLEDecompressTo(src, dst)
	case ZIP:
		return ZIPDecompressTo(dst, src, l.SampleSize)
	case HTJ2K:
		return HTJ2KDecompressTo(src, dst, l)
	default:
		if len(src) != len(dst) {
			return fmt.Errorf("%w: stored %d bytes, want %d", ErrSizeMismatch, len(src), len(dst))
		}
		copy(dst, src)
		return nil
	}
}
