package predictor

import (
	"bytes"
	"testing"
)

func TestEncodeShort(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {42}} {
		want := append([]byte(nil), data...)
		Encode(data)
		if !bytes.Equal(data, want) {
			t.Errorf("Encode(%v) changed the data", want)
		}
		Decode(data)
		if !bytes.Equal(data, want) {
			t.Errorf("Decode(%v) changed the data", want)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"constant", []byte{5, 5, 5, 5}, []byte{5, 0, 0, 0}},
		{"ramp", []byte{10, 11, 12, 13}, []byte{10, 1, 1, 1}},
		{"wrap", []byte{250, 4, 0}, []byte{250, 10, 252}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), tt.in...)
			Encode(data)
			if !bytes.Equal(data, tt.want) {
				t.Errorf("Encode = %v, want %v", data, tt.want)
			}
			Decode(data)
			if !bytes.Equal(data, tt.in) {
				t.Errorf("Decode = %v, want %v", data, tt.in)
			}
		})
	}
}

func TestEncodeRows(t *testing.T) {
	data := []byte{1, 2, 3, 7, 7, 7, 9}
	orig := append([]byte(nil), data...)

	EncodeRows(data, 3)
	want := []byte{1, 1, 1, 7, 0, 0, 9}
	if !bytes.Equal(data, want) {
		t.Errorf("EncodeRows = %v, want %v", data, want)
	}

	// Rows decode independently.
	row := append([]byte(nil), data[3:6]...)
	Decode(row)
	if !bytes.Equal(row, orig[3:6]) {
		t.Errorf("second row decodes to %v, want %v", row, orig[3:6])
	}

	DecodeRows(data, 3)
	if !bytes.Equal(data, orig) {
		t.Errorf("DecodeRows = %v, want %v", data, orig)
	}
}

func TestRoundTripLarge(t *testing.T) {
	data := make([]byte, 4099)
	for i := range data {
		data[i] = byte(i*i + 3*i)
	}
	orig := append([]byte(nil), data...)
	Encode(data)
	Decode(data)
	if !bytes.Equal(data, orig) {
		t.Error("round trip mismatch")
	}
}
