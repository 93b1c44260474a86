package compression

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/bits"

	"github.com/mrjoshuak/go-jpeg2000"

	"github.com/mrjoshuak/go-raster/internal/xdr"
)

// HTJ2K errors
var (
	ErrHTJ2KCorrupted    = errors.New("compression: corrupted HTJ2K data")
	ErrHTJ2KInvalidMagic = errors.New("compression: invalid HTJ2K magic number")

	// ErrHTJ2KLossy reports an encoded chunk that does not decode back to
	// its input. It wraps ErrUnsupported.
	ErrHTJ2KLossy = fmt.Errorf("%w: htj2k round trip is not exact", ErrUnsupported)
)

// An HTJ2K chunk is a small header followed by one lossless codestream per
// band:
//
//	magic    uint16  "HT"
//	bands    uint16
//	repeated bands times:
//	  length uint32
//	  codestream
const htj2kMagic uint16 = 0x4854

// HTJ2KBlockSize is the code-block width and height used when encoding.
const HTJ2KBlockSize = 64

// NumResolutions picks the resolution count for a width x height
// codestream: five decomposition levels, fewer when the chunk is too small
// to halve that often.
func NumResolutions(width, height int) int {
	m := min(width, height)
	if m < 1 {
		return 1
	}
	return min(6, bits.Len(uint(m)))
}

// HTJ2KCompress encodes a chunk of 8- or 16-bit samples. The result is
// decoded again before it is returned; if it does not reproduce src the
// error wraps ErrHTJ2KLossy.
func HTJ2KCompress(src []byte, l Layout) ([]byte, error) {
	if err := HTJ2K.Supports(l); err != nil {
		return nil, err
	}
	if l.Size() == 0 {
		return nil, nil
	}

	opts := &jpeg2000.Options{
		Format:         jpeg2000.FormatJ2K,
		Lossless:       true,
		HighThroughput: true,
		HTBlockWidth:   HTJ2KBlockSize,
		HTBlockHeight:  HTJ2KBlockSize,
		NumResolutions: NumResolutions(l.Width, l.Rows),
	}

	out := xdr.NewBuffer(4 + len(src)/2)
	out.WriteUint16(htj2kMagic)
	out.WriteUint16(uint16(l.Bands))

	plane := image.NewGray16(image.Rect(0, 0, l.Width, l.Rows))
	var cs bytes.Buffer
	for b := 0; b < l.Bands; b++ {
		extractPlane(plane, src, l, b)
		cs.Reset()
		if err := jpeg2000.Encode(&cs, plane, opts); err != nil {
			return nil, fmt.Errorf("htj2k: band %d: jpeg2000 encode failed: %w", b, err)
		}
		out.WriteUint32(uint32(cs.Len()))
		out.WriteBytes(cs.Bytes())
	}

	enc := out.Bytes()
	if err := verifyHTJ2K(enc, src, l); err != nil {
		return nil, err
	}
	return enc, nil
}

// verifyHTJ2K decodes enc and compares it with src.
func verifyHTJ2K(enc, src []byte, l Layout) error {
	back := make([]byte, l.Size())
	if err := HTJ2KDecompressTo(enc, back, l); err != nil {
		return fmt.Errorf("%w: %v", ErrHTJ2KLossy, err)
	}
	if i := firstDiff(back, src); i >= 0 {
		return fmt.Errorf("%w: byte %d is %d, want %d", ErrHTJ2KLossy, i, back[i], src[i])
	}
	return nil
}

func firstDiff(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}

// extractPlane copies band b of the interleaved chunk into a 16-bit
// grayscale image.
func extractPlane(dst *image.Gray16, src []byte, l Layout, b int) {
	pel := l.Bands * l.SampleSize
	for y := 0; y < l.Rows; y++ {
		row := src[y*l.RowSize():]
		for x := 0; x < l.Width; x++ {
			s := row[x*pel+b*l.SampleSize:]
			v := uint16(s[0])
			if l.SampleSize == 2 {
				v |= uint16(s[1]) << 8
			}
			dst.SetGray16(x, y, color.Gray16{Y: v})
		}
	}
}

// HTJ2KDecompressTo decodes a chunk written by HTJ2KCompress into dst.
func HTJ2KDecompressTo(src, dst []byte, l Layout) error {
	if err := HTJ2K.Supports(l); err != nil {
		return err
	}
	if len(dst) != l.Size() {
		return fmt.Errorf("%w: have %d bytes for %d", ErrSizeMismatch, len(dst), l.Size())
	}
	if l.Size() == 0 {
		return nil
	}

	r := xdr.NewReader(src)
	magic, err := r.ReadUint16()
	if err != nil {
		return ErrHTJ2KCorrupted
	}
	if magic != htj2kMagic {
		return ErrHTJ2KInvalidMagic
	}
	bands, err := r.ReadUint16()
	if err != nil {
		return ErrHTJ2KCorrupted
	}
	if int(bands) != l.Bands {
		return fmt.Errorf("%w: %d bands stored, want %d", ErrHTJ2KCorrupted, bands, l.Bands)
	}

	for b := 0; b < l.Bands; b++ {
		n, err := r.ReadUint32()
		if err != nil {
			return ErrHTJ2KCorrupted
		}
		cs, err := r.ReadBytes(int(n))
		if err != nil {
			return ErrHTJ2KCorrupted
		}
		img, err := jpeg2000.Decode(bytes.NewReader(cs))
		if err != nil {
			return fmt.Errorf("htj2k: band %d: jpeg2000 decode failed: %w", b, err)
		}
		if img.Bounds().Dx() != l.Width || img.Bounds().Dy() != l.Rows {
			return fmt.Errorf("%w: band %d is %v, want %dx%d",
				ErrHTJ2KCorrupted, b, img.Bounds(), l.Width, l.Rows)
		}
		insertPlane(dst, img, l, b)
	}
	return nil
}

// insertPlane writes a decoded grayscale image back as band b.
func insertPlane(dst []byte, img image.Image, l Layout, b int) {
	pel := l.Bands * l.SampleSize
	bounds := img.Bounds()
	gray, _ := img.(*image.Gray16)
	for y := 0; y < l.Rows; y++ {
		row := dst[y*l.RowSize():]
		for x := 0; x < l.Width; x++ {
			var v uint16
			if gray != nil {
				v = gray.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
			} else {
				v = color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16).Y
			}
			s := row[x*pel+b*l.SampleSize:]
			s[0] = byte(v)
			if l.SampleSize == 2 {
				s[1] = byte(v >> 8)
			}
		}
	}
}
