package rasterfile

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/mrjoshuak/go-raster/raster"
)

// headerFromModel maps the color model of a decoded image to the raster
// layout it loads as.
func headerFromModel(m color.Model, width, height int) Header {
	h := Header{Width: width, Height: height, Bands: 4, Format: raster.FormatUChar}
	switch m {
	case color.GrayModel:
		h.Bands = 1
	case color.Gray16Model:
		h.Bands, h.Format = 1, raster.FormatUShort
	case color.RGBAModel, color.YCbCrModel, color.CMYKModel:
		h.Bands = 3
	case color.RGBA64Model:
		h.Bands, h.Format = 3, raster.FormatUShort
	case color.NRGBA64Model:
		h.Format = raster.FormatUShort
	default:
		if p, ok := m.(color.Palette); ok {
			h.Bands = paletteBands(p)
		}
	}
	return h
}

// paletteBands returns 1 for an opaque gray palette, 3 for an opaque color
// palette and 4 otherwise.
func paletteBands(p color.Palette) int {
	gray := true
	for _, c := range p {
		r, g, b, a := c.RGBA()
		if a != 0xffff {
			return 4
		}
		if r != g || g != b {
			gray = false
		}
	}
	if gray {
		return 1
	}
	return 3
}

// bridgeFormat adapts a codec from the image ecosystem.
type bridgeFormat struct {
	name     string
	suffixes []string
	magic    [][]byte
	decode   func(io.Reader) (image.Image, error)
	config   func(io.Reader) (image.Config, error)
	encode   func(io.Writer, image.Image) error
	// formats the encoder accepts
	saveFormats []raster.BandFormat
}

func (f *bridgeFormat) Name() string { return f.name }

func (f *bridgeFormat) Suffixes() []string { return f.suffixes }

func (f *bridgeFormat) IsA(head []byte) bool {
	for _, m := range f.magic {
		if len(head) >= len(m) && string(head[:len(m)]) == string(m) {
			return true
		}
	}
	return false
}

func (f *bridgeFormat) Header(r io.ReaderAt, size int64) (Header, error) {
	cfg, err := f.config(io.NewSectionReader(r, 0, size))
	if err != nil {
		return Header{}, err
	}
	return headerFromModel(cfg.ColorModel, cfg.Width, cfg.Height), nil
}

func (f *bridgeFormat) Load(r io.ReaderAt, size int64, h Header, dst []byte) error {
	img, err := f.decode(io.NewSectionReader(r, 0, size))
	if err != nil {
		return err
	}
	return imageToPixels(img, h, dst)
}

func (f *bridgeFormat) Save(w io.Writer, r *raster.Raster) error {
	ok := false
	for _, bf := range f.saveFormats {
		ok = ok || r.Format() == bf
	}
	if !ok {
		return fmt.Errorf("%w: %s cannot store %s samples", ErrUnsupported, f.name, r.Format())
	}
	img, err := pixelsToImage(r)
	if err != nil {
		return err
	}
	return f.encode(w, img)
}

// imageToPixels converts a decoded image into the packed layout of h.
func imageToPixels(img image.Image, h Header, dst []byte) error {
	b := img.Bounds()
	if b.Dx() != h.Width || b.Dy() != h.Height {
		return fmt.Errorf("%w: decoded %v, header said %dx%d", ErrCorrupt, b, h.Width, h.Height)
	}
	if h.Coding != raster.CodingNone || (h.Format != raster.FormatUChar && h.Format != raster.FormatUShort) {
		return fmt.Errorf("%w: %s x%d", ErrUnsupported, h.Format, h.Bands)
	}

	wide := h.Format == raster.FormatUShort
	pel := h.PelSize()
	var samples [4]uint16
	for y := 0; y < h.Height; y++ {
		row := dst[y*pel*h.Width:]
		for x := 0; x < h.Width; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			n := sampleColor(c, h.Bands, wide, &samples)
			out := row[x*pel:]
			for i := 0; i < n; i++ {
				if wide {
					binary.LittleEndian.PutUint16(out[2*i:], samples[i])
				} else {
					out[i] = uint8(samples[i])
				}
			}
		}
	}
	return nil
}

// sampleColor converts c to bands samples of 8 or 16 bits.
func sampleColor(c color.Color, bands int, wide bool, s *[4]uint16) int {
	if bands == 1 {
		if wide {
			s[0] = color.Gray16Model.Convert(c).(color.Gray16).Y
		} else {
			s[0] = uint16(color.GrayModel.Convert(c).(color.Gray).Y)
		}
		return 1
	}
	if wide {
		n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
		*s = [4]uint16{n.R, n.G, n.B, n.A}
	} else {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		*s = [4]uint16{uint16(n.R), uint16(n.G), uint16(n.B), uint16(n.A)}
	}
	return min(bands, 4)
}

// pixelsToImage wraps an 8- or 16-bit raster with 1, 3 or 4 bands as a
// standard image. Three bands become an opaque RGBA image.
func pixelsToImage(r *raster.Raster) (image.Image, error) {
	if r.Coding() != raster.CodingNone {
		return nil, fmt.Errorf("%w: %s coded image", ErrUnsupported, r.Coding())
	}
	v, err := r.View()
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, r.Width(), r.Height())
	wide := r.Format() == raster.FormatUShort
	if !wide && r.Format() != raster.FormatUChar {
		return nil, fmt.Errorf("%w: %s samples", ErrUnsupported, r.Format())
	}

	switch r.Bands() {
	case 1:
		if wide {
			img := image.NewGray16(rect)
			copyRows(v, img.Pix, img.Stride, 1, true, false)
			return img, nil
		}
		img := image.NewGray(rect)
		copyRows(v, img.Pix, img.Stride, 1, false, false)
		return img, nil
	case 3, 4:
		opaque := r.Bands() == 3
		if wide {
			if opaque {
				rgba := image.NewRGBA64(rect)
				copyRows(v, rgba.Pix, rgba.Stride, 3, true, true)
				return rgba, nil
			}
			img := image.NewNRGBA64(rect)
			copyRows(v, img.Pix, img.Stride, 4, true, false)
			return img, nil
		}
		if opaque {
			rgba := image.NewRGBA(rect)
			copyRows(v, rgba.Pix, rgba.Stride, 3, false, true)
			return rgba, nil
		}
		img := image.NewNRGBA(rect)
		copyRows(v, img.Pix, img.Stride, 4, false, false)
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %d bands", ErrUnsupported, r.Bands())
	}
}

// copyRows copies raster samples into a standard image buffer. Wide samples
// are little-endian in the raster and big-endian in the image. With
// addAlpha, each pixel of bands samples gains an opaque fourth sample.
func copyRows(v *raster.View, pix []byte, stride, bands int, wide, addAlpha bool) {
	size := 1
	if wide {
		size = 2
	}
	outBands := bands
	if addAlpha {
		outBands = 4
	}
	b := v.Bounds()
	for y := 0; y < b.Height; y++ {
		src := v.Row(y)
		dst := pix[y*stride:]
		for x := 0; x < b.Width; x++ {
			in := src[x*bands*size:]
			out := dst[x*outBands*size:]
			for i := 0; i < bands; i++ {
				if wide {
					out[2*i] = in[2*i+1]
					out[2*i+1] = in[2*i]
				} else {
					out[i] = in[i]
				}
			}
			if addAlpha {
				for i := bands * size; i < outBands*size; i++ {
					out[i] = 0xff
				}
			}
		}
	}
}
