package xdr

import (
	"errors"
	"testing"
)

func TestReaderIntegers(t *testing.T) {
	data := []byte{
		0x7f,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xfe, 0xff, 0xff, 0xff,
		0xef, 0xcd, 0xab, 0x89, 0x67, 0x45, 0x23, 0x01,
	}
	r := NewReader(data)

	u8, err := r.ReadUint8()
	if err != nil || u8 != 0x7f {
		t.Fatalf("ReadUint8() = %#x, %v", u8, err)
	}
	u16, err := r.ReadUint16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadUint16() = %#x, %v", u16, err)
	}
	u32, err := r.ReadUint32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadUint32() = %#x, %v", u32, err)
	}
	i32, err := r.ReadInt32()
	if err != nil || i32 != -2 {
		t.Fatalf("ReadInt32() = %d, %v", i32, err)
	}
	u64, err := r.ReadUint64()
	if err != nil || u64 != 0x0123456789abcdef {
		t.Fatalf("ReadUint64() = %#x, %v", u64, err)
	}
	if r.Len() != 0 || r.Pos() != len(data) {
		t.Errorf("Len() = %d, Pos() = %d", r.Len(), r.Pos())
	}
}

func TestReaderShort(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})

	if _, err := r.ReadUint32(); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("ReadUint32() error = %v, want ErrShortBuffer", err)
	}
	if r.Pos() != 0 {
		t.Errorf("failed read moved position to %d", r.Pos())
	}
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("ReadBytes(-1) error = %v", err)
	}
	if err := r.Skip(4); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Skip(4) error = %v", err)
	}
	if _, err := r.ReadString(); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("unterminated ReadString() error = %v", err)
	}
}

func TestBufferRoundTrip(t *testing.T) {
	w := NewBuffer(0)
	w.WriteBytes([]byte("RV"))
	w.WriteUint8(9)
	w.WriteUint16(0xbeef)
	w.WriteInt32(-100)
	w.WriteUint64(0)
	w.WriteString("hello")
	if err := w.PutUint64At(2+1+2+4, 1<<40); err != nil {
		t.Fatalf("PutUint64At: %v", err)
	}
	if err := w.PutUint64At(w.Len()-4, 1); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("PutUint64At past end error = %v", err)
	}

	r := NewReader(w.Bytes())
	magic, _ := r.ReadBytes(2)
	u8, _ := r.ReadUint8()
	u16, _ := r.ReadUint16()
	i32, _ := r.ReadInt32()
	u64, _ := r.ReadUint64()
	s, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}

	if string(magic) != "RV" || u8 != 9 || u16 != 0xbeef || i32 != -100 || u64 != 1<<40 || s != "hello" {
		t.Errorf("round trip = %q %d %#x %d %d %q", magic, u8, u16, i32, u64, s)
	}
}
