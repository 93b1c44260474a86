package raster

import "image"

// Rect is an axis-aligned integer rectangle. Left and Top are inclusive;
// the rectangle covers Width columns and Height rows from there.
// A rectangle with no columns or no rows is empty.
type Rect struct {
	Left, Top     int
	Width, Height int
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{Left: r.Min.X, Top: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.Left + r.Width
}

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Includes returns true if every pixel of s is inside r.
// An empty s is included in any rectangle.
func (r Rect) Includes(s Rect) bool {
	if s.IsEmpty() {
		return true
	}
	return s.Left >= r.Left && s.Top >= r.Top &&
		s.Right() <= r.Right() && s.Bottom() <= r.Bottom()
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Intersect returns the overlap of r and s. The result has zero width or
// height when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	left := max(r.Left, s.Left)
	top := max(r.Top, s.Top)
	right := min(r.Right(), s.Right())
	bottom := min(r.Bottom(), s.Bottom())
	return Rect{
		Left:   left,
		Top:    top,
		Width:  max(0, right-left),
		Height: max(0, bottom-top),
	}
}

// Image converts to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right(), r.Bottom())
}
