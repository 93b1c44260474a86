package raster

import "errors"

// maxOffset bounds the paint position in either direction.
const maxOffset = 1000000000

// ImageOptions are the arguments of an image paint.
type ImageOptions struct {
	// Sub is the image to paint. It is never modified.
	Sub *Raster
	// X and Y place Sub's top-left pixel in the destination. They may be
	// negative or put Sub partly or wholly outside the destination.
	X, Y int
}

// Validate checks the options themselves, independent of any destination.
func (o ImageOptions) Validate() error {
	if o.Sub == nil {
		return errors.New("raster: no sub-image")
	}
	if o.X < -maxOffset || o.X > maxOffset || o.Y < -maxOffset || o.Y > maxOffset {
		return opErrorf("draw_image", ErrOutOfBounds, "position (%d, %d) out of range", o.X, o.Y)
	}
	return nil
}

// ImageDraw pastes a sub-image into a destination image. It holds the
// sub-image already converted to the destination's bands and format.
type ImageDraw struct {
	image *Raster
	sub   *Raster
	owned bool
	x, y  int

	dst *View
	src *View
}

// NewImageDraw checks that opts.Sub can be painted into image and prepares
// the converted sub-image. Close releases it.
//
// The codings must be equal and known, and the sub-image must have one band
// or as many bands as image; otherwise the error wraps ErrIncompatibleCoding
// or ErrIncompatibleBands. Failure to load either image's pixels wraps ErrIO.
func NewImageDraw(image *Raster, opts ImageOptions) (*ImageDraw, error) {
	const op = "draw_image"

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkCompatible(op, opts.Sub, image.bands, image.coding); err != nil {
		return nil, err
	}

	sub, err := reconcile(opts.Sub, image.bands, image.format, image.coding, globalBufferPool)
	if err != nil {
		return nil, err
	}
	d := &ImageDraw{
		image: image,
		sub:   sub,
		owned: sub != opts.Sub,
		x:     opts.X,
		y:     opts.Y,
	}

	if d.src, err = sub.View(); err != nil {
		d.Close()
		return nil, opError(op, err)
	}
	if d.dst, err = image.View(); err != nil {
		d.Close()
		return nil, opError(op, err)
	}
	return d, nil
}

// Image returns the destination.
func (d *ImageDraw) Image() *Raster {
	return d.image
}

// Area returns the rectangle the sub-image covers in image coordinates,
// before clipping.
func (d *ImageDraw) Area() Rect {
	return Rect{Left: d.x, Top: d.y, Width: d.sub.width, Height: d.sub.height}
}

// DrawRect copies the part of the sub-image under clip into the image, one
// row at a time from top to bottom. clip must lie inside both the image and
// Area.
func (d *ImageDraw) DrawRect(clip Rect) error {
	if clip.IsEmpty() {
		return nil
	}
	if !d.image.Bounds().Includes(clip) || !d.Area().Includes(clip) {
		return opErrorf("draw_image", ErrOutOfBounds, "clip %+v", clip)
	}

	sx := clip.Left - d.x
	sy := clip.Top - d.y
	for r := 0; r < clip.Height; r++ {
		copy(d.dst.Span(clip.Left, clip.Top+r, clip.Width),
			d.src.Span(sx, sy+r, clip.Width))
	}
	return nil
}

// Close releases the converted sub-image if one was made.
func (d *ImageDraw) Close() error {
	if d.owned && d.sub != nil {
		err := d.sub.Close()
		d.sub = nil
		d.src = nil
		return err
	}
	return nil
}

// DrawImage paints sub into image with sub's top-left pixel at (x, y),
// overwriting image's pixels in place.
//
// sub is converted to image's band count and format first: a one-band sub is
// duplicated across all bands, and samples are cast. The two images must
// share a coding; coded images are copied verbatim and must already match.
// Only the part of sub that overlaps image is copied; pasting entirely
// outside image is not an error. All checks happen before any pixel of
// image is written.
//
// x and y must lie within ±1e9; a position beyond that fails with
// ErrOutOfBounds even when it would paint nothing.
func DrawImage(image, sub *Raster, x, y int) error {
	d, err := NewImageDraw(image, ImageOptions{Sub: sub, X: x, Y: y})
	if err != nil {
		return err
	}
	defer d.Close()
	return Run(d, d.Area())
}
