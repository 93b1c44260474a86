// Package xdr reads and writes the little-endian fields of raster file
// headers.
//
// Every multi-byte value is little-endian. Reads are bounds-checked against
// the underlying slice and never panic on truncated input.
package xdr

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrShortBuffer is returned when a read runs past the end of the data.
	ErrShortBuffer = errors.New("xdr: buffer too short")

	// ErrNegativeSize is returned when a length argument is negative.
	ErrNegativeSize = errors.New("xdr: negative size")
)

// ByteOrder is the byte order of every header field.
var ByteOrder = binary.LittleEndian

// Reader decodes fields from a byte slice, advancing a read position.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Pos returns the read position.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n > r.Len() {
		return nil, ErrShortBuffer
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.next(n)
	return err
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 16-bit unsigned integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint16(b), nil
}

// ReadUint32 reads a 32-bit unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(b), nil
}

// ReadInt32 reads a 32-bit signed integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a 64-bit unsigned integer.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint64(b), nil
}

// ReadString reads a null-terminated string. The terminator is consumed.
// On error the read position is unchanged.
func (r *Reader) ReadString() (string, error) {
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", ErrShortBuffer
}

// Buffer is a growing buffer of encoded fields.
type Buffer struct {
	buf []byte
}

// NewBuffer returns an empty Buffer with room for capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *Buffer) Len() int {
	return len(w.buf)
}

// Bytes returns the encoded data. It aliases the buffer until the next write.
func (w *Buffer) Bytes() []byte {
	return w.buf
}

// WriteBytes appends b unchanged.
func (w *Buffer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint8 appends one byte.
func (w *Buffer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a 16-bit unsigned integer.
func (w *Buffer) WriteUint16(v uint16) {
	w.buf = ByteOrder.AppendUint16(w.buf, v)
}

// WriteUint32 appends a 32-bit unsigned integer.
func (w *Buffer) WriteUint32(v uint32) {
	w.buf = ByteOrder.AppendUint32(w.buf, v)
}

// WriteInt32 appends a 32-bit signed integer.
func (w *Buffer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 appends a 64-bit unsigned integer.
func (w *Buffer) WriteUint64(v uint64) {
	w.buf = ByteOrder.AppendUint64(w.buf, v)
}

// WriteString appends s followed by a null terminator.
func (w *Buffer) WriteString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// PutUint64At overwrites eight bytes at off, used to patch offsets written
// before their values were known.
func (w *Buffer) PutUint64At(off int, v uint64) error {
	if off < 0 || off+8 > len(w.buf) {
		return ErrShortBuffer
	}
	ByteOrder.PutUint64(w.buf[off:], v)
	return nil
}
