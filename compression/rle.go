package compression

import "errors"

// RLE errors
var (
	ErrRLECorrupted = errors.New("compression: corrupted RLE data")
	ErrRLEOverflow  = errors.New("compression: RLE data decodes past the chunk")
)

const (
	rleMinRun = 3
	rleMaxRun = 127
)

// RLECompress run-length encodes src.
//
// The stream is a sequence of packets, each starting with a signed count
// byte. A negative count -n is followed by one byte repeated n+1 times; a
// non-negative count n is followed by n+1 literal bytes.
//
//	[7, 7, 7, 7, 1, 2] -> [-3, 7, 1, 1, 2]
func RLECompress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	dst := make([]byte, 0, len(src)+len(src)/rleMaxRun+1)

	lit := 0 // start of pending literals
	i := 0
	for i < len(src) {
		run := runLength(src[i:])
		if run < rleMinRun {
			i++
			if i-lit == rleMaxRun {
				dst = appendLiterals(dst, src[lit:i])
				lit = i
			}
			continue
		}
		dst = appendLiterals(dst, src[lit:i])
		dst = append(dst, byte(int8(-(run - 1))), src[i])
		i += run
		lit = i
	}
	return appendLiterals(dst, src[lit:])
}

// runLength counts how many leading bytes of b equal b[0], up to rleMaxRun.
func runLength(b []byte) int {
	n := 1
	for n < len(b) && n < rleMaxRun && b[n] == b[0] {
		n++
	}
	return n
}

func appendLiterals(dst, lit []byte) []byte {
	if len(lit) == 0 {
		return dst
	}
	dst = append(dst, byte(len(lit)-1))
	return append(dst, lit...)
}

// RLEDecompressTo decodes src into dst, which must be exactly the decoded
// size.
func RLEDecompressTo(src, dst []byte) error {
	out := 0
	for i := 0; i < len(src); {
		count := int(int8(src[i]))
		i++

		if count < 0 {
			n := 1 - count
			if i >= len(src) {
				return ErrRLECorrupted
			}
			if out+n > len(dst) {
				return ErrRLEOverflow
			}
			v := src[i]
			i++
			fill := dst[out : out+n]
			for j := range fill {
				fill[j] = v
			}
			out += n
			continue
		}

		n := count + 1
		if i+n > len(src) {
			return ErrRLECorrupted
		}
		if out+n > len(dst) {
			return ErrRLEOverflow
		}
		out += copy(dst[out:], src[i:i+n])
		i += n
	}

	if out != len(dst) {
		return ErrRLECorrupted
	}
	return nil
}
