// Package predictor implements the byte differencing applied to pixel
// data before deflate compression.
//
// Neighbouring bytes of a smooth image differ by small amounts, so storing
// each byte as the difference from its predecessor leaves long runs of
// values near zero for the compressor.
package predictor

// Encode replaces every byte after the first with its difference from the
// preceding original byte. Arithmetic wraps modulo 256.
func Encode(data []byte) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// Decode reverses Encode in place.
func Decode(data []byte) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}

// EncodeRows applies Encode separately to each rowLen-byte row of data, so
// that rows can later be decoded independently. A trailing partial row is
// encoded on its own.
func EncodeRows(data []byte, rowLen int) {
	if rowLen <= 0 {
		Encode(data)
		return
	}
	for start := 0; start < len(data); start += rowLen {
		Encode(data[start:min(start+rowLen, len(data))])
	}
}

// DecodeRows reverses EncodeRows.
func DecodeRows(data []byte, rowLen int) {
	if rowLen <= 0 {
		Decode(data)
		return
	}
	for start := 0; start < len(data); start += rowLen {
		Decode(data[start:min(start+rowLen, len(data))])
	}
}
