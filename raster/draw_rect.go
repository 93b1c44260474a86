package raster

// RectDraw fills rectangles of an uncoded image with a constant ink.
type RectDraw struct {
	image *Raster
	pel   []byte
	dst   *View
}

// NewRectDraw prepares a fill of image with ink. ink holds one value per
// band, or a single value for every band; values are cast to the image's
// format.
func NewRectDraw(image *Raster, ink []float64) (*RectDraw, error) {
	const op = "draw_rect"

	if image.coding != CodingNone {
		return nil, opError(op, ErrNotUncoded)
	}
	if len(ink) != 1 && len(ink) != image.bands {
		return nil, opErrorf(op, ErrIncompatibleBands, "ink has %d values, image has %d bands", len(ink), image.bands)
	}

	size := image.format.Size()
	pel := make([]byte, image.PelSize())
	for b := 0; b < image.bands; b++ {
		v := ink[0]
		if len(ink) > 1 {
			v = ink[b]
		}
		writeSample(pel[b*size:], image.format, v, 0)
	}

	dst, err := image.View()
	if err != nil {
		return nil, opError(op, err)
	}
	return &RectDraw{image: image, pel: pel, dst: dst}, nil
}

// Image returns the destination.
func (d *RectDraw) Image() *Raster {
	return d.image
}

// DrawRect fills clip, which must lie inside the image.
func (d *RectDraw) DrawRect(clip Rect) error {
	if clip.IsEmpty() {
		return nil
	}
	if !d.image.Bounds().Includes(clip) {
		return opErrorf("draw_rect", ErrOutOfBounds, "clip %+v", clip)
	}

	first := d.dst.Span(clip.Left, clip.Top, clip.Width)
	n := copy(first, d.pel)
	for n < len(first) {
		n += copy(first[n:], first[:n])
	}
	for r := 1; r < clip.Height; r++ {
		copy(d.dst.Span(clip.Left, clip.Top+r, clip.Width), first)
	}
	return nil
}

// DrawRect fills the part of area that lies inside image with ink.
func DrawRect(image *Raster, ink []float64, area Rect) error {
	d, err := NewRectDraw(image, ink)
	if err != nil {
		return err
	}
	return Run(d, area)
}
