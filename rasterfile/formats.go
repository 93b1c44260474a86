package rasterfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/mrjoshuak/go-raster/compression"
	"github.com/mrjoshuak/go-raster/raster"
)

func init() {
	Register(j2kFormat{})
	Register(&bridgeFormat{
		name:        "bmp",
		suffixes:    []string{".bmp"},
		magic:       [][]byte{[]byte("BM")},
		decode:      bmp.Decode,
		config:      bmp.DecodeConfig,
		encode:      bmp.Encode,
		saveFormats: []raster.BandFormat{raster.FormatUChar},
	})
	Register(&bridgeFormat{
		name:     "tiff",
		suffixes: []string{".tif", ".tiff"},
		magic:    [][]byte{[]byte("II*\x00"), []byte("MM\x00*")},
		decode:   tiff.Decode,
		config:   tiff.DecodeConfig,
		encode: func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		},
		saveFormats: []raster.BandFormat{raster.FormatUChar, raster.FormatUShort},
	})
	Register(&bridgeFormat{
		name:        "png",
		suffixes:    []string{".png"},
		magic:       [][]byte{[]byte("\x89PNG\r\n\x1a\n")},
		decode:      png.Decode,
		config:      png.DecodeConfig,
		encode:      png.Encode,
		saveFormats: []raster.BandFormat{raster.FormatUChar, raster.FormatUShort},
	})
	Register(&Native{})
}

// j2kFormat reads and writes raw JPEG 2000 codestreams.
type j2kFormat struct{}

// j2kMagic is the SOC marker followed by the SIZ marker.
var j2kMagic = []byte{0xff, 0x4f, 0xff, 0x51}

func (j2kFormat) Name() string { return "j2k" }

func (j2kFormat) Suffixes() []string { return []string{".j2k", ".j2c"} }

func (j2kFormat) IsA(head []byte) bool {
	return len(head) >= len(j2kMagic) && string(head[:len(j2kMagic)]) == string(j2kMagic)
}

// Header parses the SIZ marker segment, which follows SOC directly.
func (j2kFormat) Header(r io.ReaderAt, size int64) (Header, error) {
	// SOC, SIZ marker, Lsiz, Rsiz, eight 32-bit fields, Csiz.
	const fixed = 2 + 2 + 2 + 2 + 8*4 + 2
	buf := make([]byte, min(size, fixed+4*3))
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return Header{}, err
	}
	if len(buf) < fixed || !(j2kFormat{}).IsA(buf) {
		return Header{}, fmt.Errorf("%w: missing SIZ marker", ErrCorrupt)
	}

	be := binary.BigEndian
	xsiz, ysiz := be.Uint32(buf[8:]), be.Uint32(buf[12:])
	xo, yo := be.Uint32(buf[16:]), be.Uint32(buf[20:])
	comps := int(be.Uint16(buf[40:]))
	if xo > xsiz || yo > ysiz || comps == 0 || len(buf) < fixed+3*min(comps, 4) {
		return Header{}, fmt.Errorf("%w: bad SIZ marker", ErrCorrupt)
	}
	if comps == 2 || comps > 4 {
		return Header{}, fmt.Errorf("%w: %d components", ErrUnsupported, comps)
	}
	depth := 0
	for c := 0; c < comps; c++ {
		depth = max(depth, int(buf[fixed+3*c]&0x7f)+1)
	}
	if depth > 16 {
		return Header{}, fmt.Errorf("%w: %d-bit components", ErrUnsupported, depth)
	}

	h := Header{
		Width:  int(xsiz - xo),
		Height: int(ysiz - yo),
		Bands:  comps,
		Format: raster.FormatUChar,
	}
	if depth > 8 {
		h.Format = raster.FormatUShort
	}
	return h, nil
}

func (j2kFormat) Load(r io.ReaderAt, size int64, h Header, dst []byte) error {
	img, err := jpeg2000.Decode(io.NewSectionReader(r, 0, size))
	if err != nil {
		return err
	}
	return imageToPixels(img, h, dst)
}

// Save writes r only once its codestream has been decoded and found to
// reproduce r exactly. Otherwise the error wraps compression.ErrHTJ2KLossy.
func (j2kFormat) Save(w io.Writer, r *raster.Raster) error {
	img, err := pixelsToImage(r)
	if err != nil {
		return err
	}
	var cs bytes.Buffer
	err = jpeg2000.Encode(&cs, img, &jpeg2000.Options{
		Format:         jpeg2000.FormatJ2K,
		Lossless:       true,
		NumResolutions: compression.NumResolutions(r.Width(), r.Height()),
	})
	if err != nil {
		return err
	}
	if err := checkJ2K(cs.Bytes(), r); err != nil {
		return err
	}
	_, err = w.Write(cs.Bytes())
	return err
}

// checkJ2K decodes cs and compares it with the pixels of r.
func checkJ2K(cs []byte, r *raster.Raster) error {
	h := Header{Width: r.Width(), Height: r.Height(), Bands: r.Bands(), Format: r.Format()}
	got := make([]byte, h.ImageSize())
	if err := (j2kFormat{}).Load(bytes.NewReader(cs), int64(len(cs)), h, got); err != nil {
		return fmt.Errorf("%w: %v", compression.ErrHTJ2KLossy, err)
	}
	v, err := r.View()
	if err != nil {
		return err
	}
	line := h.PelSize() * h.Width
	for y := 0; y < h.Height; y++ {
		if !bytes.Equal(v.Row(y), got[y*line:(y+1)*line]) {
			return fmt.Errorf("%w: row %d differs", compression.ErrHTJ2KLossy, y)
		}
	}
	return nil
}
