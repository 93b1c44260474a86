package raster

import (
	"encoding/binary"
	"fmt"
	"math"
)

// byteOrder is the layout of multi-byte samples in every pixel buffer.
var byteOrder = binary.LittleEndian

// View is bounded, stride-aware access to a resident raster's pixel bytes.
// Every accessor checks its coordinates against the raster and panics
// rather than touch memory outside it.
type View struct {
	pix     []byte
	width   int
	height  int
	bands   int
	format  BandFormat
	pelSize int
	stride  int
}

// View ensures r is resident and returns a view of its pixels. Writes through
// the view change r in place.
func (r *Raster) View() (*View, error) {
	if err := EnsureResident(r); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return &View{
		pix:     r.pix,
		width:   r.width,
		height:  r.height,
		bands:   r.bands,
		format:  r.format,
		pelSize: r.PelSize(),
		stride:  r.stride,
	}, nil
}

// Bounds returns the addressable rectangle.
func (v *View) Bounds() Rect {
	return Rect{Width: v.width, Height: v.height}
}

// PelSize returns the number of bytes in one pixel.
func (v *View) PelSize() int { return v.pelSize }

// Stride returns the number of bytes between the starts of adjacent rows.
func (v *View) Stride() int { return v.stride }

// Span returns the bytes of n consecutive pixels starting at (x, y).
// The returned slice aliases the raster.
func (v *View) Span(x, y, n int) []byte {
	if y < 0 || y >= v.height || x < 0 || n < 0 || x+n > v.width {
		panic(fmt.Sprintf("raster: span (%d,%d)+%d outside %dx%d view", x, y, n, v.width, v.height))
	}
	start := y*v.stride + x*v.pelSize
	return v.pix[start : start+n*v.pelSize : start+n*v.pelSize]
}

// Row returns the pixel bytes of row y, excluding any padding.
func (v *View) Row(y int) []byte {
	return v.Span(0, y, v.width)
}

// Pel returns the bytes of the pixel at (x, y).
func (v *View) Pel(x, y int) []byte {
	return v.Span(x, y, 1)
}

// Float64 reads band b of the pixel at (x, y), converting to float64.
// Complex samples return their real part.
func (v *View) Float64(x, y, b int) float64 {
	v.checkBand(b)
	re, _ := readSample(v.Pel(x, y)[b*v.format.Size():], v.format)
	return re
}

// SetFloat64 writes band b of the pixel at (x, y), converting from float64
// with the same clipping rules as Cast.
func (v *View) SetFloat64(x, y, b int, val float64) {
	v.checkBand(b)
	writeSample(v.Pel(x, y)[b*v.format.Size():], v.format, val, 0)
}

func (v *View) checkBand(b int) {
	if b < 0 || b >= v.bands || v.pelSize != v.bands*v.format.Size() {
		panic(fmt.Sprintf("raster: band %d outside %d-band uncoded view", b, v.bands))
	}
}

// readSample decodes one sample at the start of buf.
func readSample(buf []byte, f BandFormat) (re, im float64) {
	switch f {
	case FormatUChar:
		return float64(buf[0]), 0
	case FormatChar:
		return float64(int8(buf[0])), 0
	case FormatUShort:
		return float64(byteOrder.Uint16(buf)), 0
	case FormatShort:
		return float64(int16(byteOrder.Uint16(buf))), 0
	case FormatUInt:
		return float64(byteOrder.Uint32(buf)), 0
	case FormatInt:
		return float64(int32(byteOrder.Uint32(buf))), 0
	case FormatFloat:
		return float64(math.Float32frombits(byteOrder.Uint32(buf))), 0
	case FormatComplex:
		return float64(math.Float32frombits(byteOrder.Uint32(buf))),
			float64(math.Float32frombits(byteOrder.Uint32(buf[4:])))
	case FormatDouble:
		return math.Float64frombits(byteOrder.Uint64(buf)), 0
	case FormatDPComplex:
		return math.Float64frombits(byteOrder.Uint64(buf)),
			math.Float64frombits(byteOrder.Uint64(buf[8:]))
	default:
		return 0, 0
	}
}

// writeSample encodes one sample at the start of buf. Integer formats clip
// to their range and truncate toward zero; NaN becomes 0. Real formats
// ignore im.
func writeSample(buf []byte, f BandFormat, re, im float64) {
	switch f {
	case FormatUChar:
		buf[0] = uint8(clipInt(re, f))
	case FormatChar:
		buf[0] = uint8(int8(clipInt(re, f)))
	case FormatUShort:
		byteOrder.PutUint16(buf, uint16(clipInt(re, f)))
	case FormatShort:
		byteOrder.PutUint16(buf, uint16(int16(clipInt(re, f))))
	case FormatUInt:
		byteOrder.PutUint32(buf, uint32(clipInt(re, f)))
	case FormatInt:
		byteOrder.PutUint32(buf, uint32(int32(clipInt(re, f))))
	case FormatFloat:
		byteOrder.PutUint32(buf, math.Float32bits(float32(re)))
	case FormatComplex:
		byteOrder.PutUint32(buf, math.Float32bits(float32(re)))
		byteOrder.PutUint32(buf[4:], math.Float32bits(float32(im)))
	case FormatDouble:
		byteOrder.PutUint64(buf, math.Float64bits(re))
	case FormatDPComplex:
		byteOrder.PutUint64(buf, math.Float64bits(re))
		byteOrder.PutUint64(buf[8:], math.Float64bits(im))
	}
}

// clipInt truncates v toward zero and clamps it to the range of f.
func clipInt(v float64, f BandFormat) int64 {
	if math.IsNaN(v) {
		return 0
	}
	lo, hi := f.Range()
	v = math.Trunc(v)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int64(v)
}
