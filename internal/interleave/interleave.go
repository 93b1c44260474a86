// Package interleave splits multi-byte samples into byte planes.
//
// The low bytes of neighbouring 16-bit samples vary quickly while the high
// bytes barely change. Grouping all bytes at the same offset within each
// sample gives a deflate stream long stretches of similar values:
//
//	Input:  [A0, A1, B0, B1, C0, C1]
//	Output: [A0, B0, C0, A1, B1, C1]
package interleave

// Interleave writes data into out as size byte planes: first byte 0 of
// every size-byte element, then byte 1, and so on. Bytes past the last whole
// element are copied unchanged. If out is nil a buffer is allocated; it must
// otherwise be len(data) long and must not overlap data.
func Interleave(data []byte, size int, out []byte) []byte {
	if out == nil {
		out = make([]byte, len(data))
	}
	if size <= 1 {
		copy(out, data)
		return out
	}

	n := len(data) / size
	for off := 0; off < size; off++ {
		plane := out[off*n : (off+1)*n]
		for i := range plane {
			plane[i] = data[i*size+off]
		}
	}
	copy(out[n*size:], data[n*size:])
	return out
}

// Deinterleave reverses Interleave.
func Deinterleave(data []byte, size int, out []byte) []byte {
	if out == nil {
		out = make([]byte, len(data))
	}
	if size <= 1 {
		copy(out, data)
		return out
	}

	n := len(data) / size
	for off := 0; off < size; off++ {
		plane := data[off*n : (off+1)*n]
		for i, b := range plane {
			out[i*size+off] = b
		}
	}
	copy(out[n*size:], data[n*size:])
	return out
}
