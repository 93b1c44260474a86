package rasterfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/mrjoshuak/go-raster/compression"
	"github.com/mrjoshuak/go-raster/internal/xdr"
	"github.com/mrjoshuak/go-raster/raster"
)

// The native file holds a fixed header, a chunk table and the compressed
// chunks, each a run of whole packed rows:
//
//	magic        [4]byte "RSTV"
//	version      uint8
//	compression  uint8
//	reserved     uint16
//	width        int32
//	height       int32
//	bands        int32
//	format       int32
//	coding       int32
//	rowsPerChunk uint32
//	chunkCount   uint32
//	chunkCount x { offset uint64; length uint32 }
//	chunk data
//
// All fields are little-endian, as are the samples inside chunks.
const (
	nativeVersion    = 1
	nativeHeaderSize = 36
	nativeEntrySize  = 12

	// defaultChunkBytes is the target uncompressed size of one chunk.
	defaultChunkBytes = 64 << 10
)

var nativeMagic = []byte("RSTV")

var defaultMethod atomic.Uint32

func init() {
	defaultMethod.Store(uint32(compression.ZIP))
}

// SetCompression sets the codec used when saving native files with the
// registered format. It returns the previous codec.
func SetCompression(m compression.Method) compression.Method {
	return compression.Method(defaultMethod.Swap(uint32(m)))
}

// Compression returns the codec used when saving native files.
func Compression() compression.Method {
	return compression.Method(defaultMethod.Load())
}

// Native is the ".v" format. It stores rasters of every band format and
// coding exactly.
type Native struct {
	method       compression.Method
	fixed        bool
	rowsPerChunk int
}

// NewNative returns a native format that always saves with method m.
// rowsPerChunk of 0 picks a chunk height from the row size.
func NewNative(m compression.Method, rowsPerChunk int) *Native {
	return &Native{method: m, fixed: true, rowsPerChunk: rowsPerChunk}
}

func (n *Native) Name() string { return "native" }

func (n *Native) Suffixes() []string { return []string{".v"} }

func (n *Native) IsA(head []byte) bool {
	return bytes.HasPrefix(head, nativeMagic)
}

type nativeHeader struct {
	Header
	method       compression.Method
	rowsPerChunk int
	chunks       int
}

func (h nativeHeader) layout(rows int) compression.Layout {
	if h.Coding != raster.CodingNone {
		return compression.Layout{Width: h.Width, Rows: rows, Bands: 4, SampleSize: 1}
	}
	return compression.Layout{Width: h.Width, Rows: rows, Bands: h.Bands, SampleSize: h.Format.Size()}
}

func chunkCount(height, rowsPerChunk int) int {
	return (height + rowsPerChunk - 1) / rowsPerChunk
}

func readNativeHeader(r io.ReaderAt, size int64) (nativeHeader, error) {
	var h nativeHeader
	if size < nativeHeaderSize {
		return h, fmt.Errorf("%w: %d bytes is too short for a header", ErrCorrupt, size)
	}
	buf := make([]byte, nativeHeaderSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return h, err
	}

	d := xdr.NewReader(buf)
	magic, _ := d.ReadBytes(len(nativeMagic))
	if !bytes.Equal(magic, nativeMagic) {
		return h, fmt.Errorf("%w: bad magic %q", ErrCorrupt, magic)
	}
	version, _ := d.ReadUint8()
	if version != nativeVersion {
		return h, fmt.Errorf("%w: version %d", ErrUnsupported, version)
	}
	method, _ := d.ReadUint8()
	d.Skip(2)
	width, _ := d.ReadInt32()
	height, _ := d.ReadInt32()
	bands, _ := d.ReadInt32()
	format, _ := d.ReadInt32()
	coding, _ := d.ReadInt32()
	rowsPerChunk, _ := d.ReadUint32()
	chunks, err := d.ReadUint32()
	if err != nil {
		return h, err
	}

	h.Header = Header{
		Width:  int(width),
		Height: int(height),
		Bands:  int(bands),
		Format: raster.BandFormat(format),
		Coding: raster.Coding(coding),
	}
	h.method = compression.Method(method)
	h.rowsPerChunk = int(rowsPerChunk)
	h.chunks = int(chunks)

	switch {
	case width < 0 || height < 0 || bands < 1:
		return h, fmt.Errorf("%w: %dx%d with %d bands", ErrCorrupt, width, height, bands)
	case !h.Format.IsValid() || !raster.IsKnownCoding(h.Coding):
		return h, fmt.Errorf("%w: format %d coding %d", ErrCorrupt, format, coding)
	case h.Coding != raster.CodingNone && (h.Bands != 4 || h.Format != raster.FormatUChar):
		return h, fmt.Errorf("%w: %s coding with %d bands of %s", ErrCorrupt, h.Coding, h.Bands, h.Format)
	case !h.method.IsValid():
		return h, fmt.Errorf("%w: compression %d", ErrUnsupported, method)
	case height > 0 && rowsPerChunk == 0:
		return h, fmt.Errorf("%w: zero rows per chunk", ErrCorrupt)
	case height > 0 && h.chunks != chunkCount(h.Height, h.rowsPerChunk):
		return h, fmt.Errorf("%w: %d chunks for %d rows of %d", ErrCorrupt, chunks, height, rowsPerChunk)
	case height == 0 && h.chunks != 0:
		return h, fmt.Errorf("%w: chunks in an empty image", ErrCorrupt)
	}
	if int64(nativeHeaderSize)+int64(h.chunks)*nativeEntrySize > size {
		return h, fmt.Errorf("%w: chunk table past end of file", ErrCorrupt)
	}
	return h, nil
}

func (n *Native) Header(r io.ReaderAt, size int64) (Header, error) {
	h, err := readNativeHeader(r, size)
	return h.Header, err
}

func (n *Native) Load(r io.ReaderAt, size int64, _ Header, dst []byte) error {
	h, err := readNativeHeader(r, size)
	if err != nil {
		return err
	}
	if int64(len(dst)) != h.ImageSize() {
		return fmt.Errorf("rasterfile: native load into %d bytes, want %d", len(dst), h.ImageSize())
	}

	table := make([]byte, h.chunks*nativeEntrySize)
	if _, err := r.ReadAt(table, nativeHeaderSize); err != nil {
		return err
	}
	offsets := make([]int64, h.chunks)
	lengths := make([]int, h.chunks)
	t := xdr.NewReader(table)
	for i := range offsets {
		off, _ := t.ReadUint64()
		length, _ := t.ReadUint32()
		if off > uint64(size) || uint64(length) > uint64(size)-off {
			return fmt.Errorf("%w: chunk %d at %d+%d past end of file", ErrCorrupt, i, off, length)
		}
		offsets[i], lengths[i] = int64(off), int(length)
	}

	line := h.PelSize() * h.Width
	return parallelFor(h.chunks, func(i int) error {
		y0 := i * h.rowsPerChunk
		rows := min(h.rowsPerChunk, h.Height-y0)
		data := make([]byte, lengths[i])
		if _, err := r.ReadAt(data, offsets[i]); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		out := dst[y0*line : (y0+rows)*line]
		if err := compression.Decompress(h.method, data, out, h.layout(rows)); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		return nil
	})
}

func (n *Native) saveMethod(h nativeHeader) compression.Method {
	m := n.method
	if !n.fixed {
		m = Compression()
	}
	if err := m.Supports(h.layout(1)); err != nil {
		raster.Logger().Warn("rasterfile: compression not usable, falling back to zip",
			"compression", m, "format", h.Format, "err", err)
		return compression.ZIP
	}
	return m
}

// encodeChunks compresses the rows of v with h.method, one chunk at a time.
func encodeChunks(v *raster.View, h nativeHeader) ([][]byte, error) {
	line := h.PelSize() * h.Width
	chunks := make([][]byte, h.chunks)
	err := parallelFor(h.chunks, func(i int) error {
		y0 := i * h.rowsPerChunk
		rows := min(h.rowsPerChunk, h.Height-y0)
		packed := make([]byte, 0, rows*line)
		for y := y0; y < y0+rows; y++ {
			packed = append(packed, v.Row(y)...)
		}
		c, err := compression.Compress(h.method, packed, h.layout(rows))
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks[i] = c
		return nil
	})
	return chunks, err
}

func (n *Native) Save(w io.Writer, r *raster.Raster) error {
	v, err := r.View()
	if err != nil {
		return err
	}

	h := nativeHeader{Header: Header{
		Width:  r.Width(),
		Height: r.Height(),
		Bands:  r.Bands(),
		Format: r.Format(),
		Coding: r.Coding(),
	}}
	line := h.PelSize() * h.Width
	h.rowsPerChunk = n.rowsPerChunk
	if h.rowsPerChunk <= 0 {
		h.rowsPerChunk = max(1, defaultChunkBytes/max(line, 1))
	}
	h.chunks = chunkCount(h.Height, h.rowsPerChunk)
	h.method = n.saveMethod(h)

	chunks, err := encodeChunks(v, h)
	if err != nil && h.method != compression.ZIP && errors.Is(err, compression.ErrUnsupported) {
		raster.Logger().Warn("rasterfile: compression not usable, falling back to zip",
			"compression", h.method, "format", h.Format, "err", err)
		h.method = compression.ZIP
		chunks, err = encodeChunks(v, h)
	}
	if err != nil {
		return err
	}

	hdr := xdr.NewBuffer(nativeHeaderSize + h.chunks*nativeEntrySize)
	hdr.WriteBytes(nativeMagic)
	hdr.WriteUint8(nativeVersion)
	hdr.WriteUint8(uint8(h.method))
	hdr.WriteUint16(0)
	hdr.WriteInt32(int32(h.Width))
	hdr.WriteInt32(int32(h.Height))
	hdr.WriteInt32(int32(h.Bands))
	hdr.WriteInt32(int32(h.Format))
	hdr.WriteInt32(int32(h.Coding))
	hdr.WriteUint32(uint32(h.rowsPerChunk))
	hdr.WriteUint32(uint32(h.chunks))
	off := uint64(nativeHeaderSize + h.chunks*nativeEntrySize)
	for _, c := range chunks {
		hdr.WriteUint64(off)
		hdr.WriteUint32(uint32(len(c)))
		off += uint64(len(c))
	}

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	raster.Logger().Debug("rasterfile: saved native",
		"chunks", h.chunks, "compression", h.method, "bytes", off)
	return nil
}
