package raster

// Drawer is a drawing operation bound to a destination image.
//
// DrawRect paints the operation into clip, given in image coordinates.
// Implementations refuse a clip that is not inside the image.
type Drawer interface {
	Image() *Raster
	DrawRect(clip Rect) error
}

// Run paints d over area, clipped to d's image. An area that misses the
// image entirely succeeds without touching any pixel.
func Run(d Drawer, area Rect) error {
	clip := d.Image().Bounds().Intersect(area)
	if clip.IsEmpty() {
		Logger().Debug("raster: draw area outside image", "area", area)
		return nil
	}
	Logger().Debug("raster: drawing", "clip", clip)
	return d.DrawRect(clip)
}
