package raster

// Bandup returns a raster with the single band of r repeated bands times in
// every pixel. If r already has that many bands it is returned unchanged.
func Bandup(r *Raster, bands int) (*Raster, error) {
	return bandup(r, bands, nil)
}

func bandup(r *Raster, bands int, pool *BufferPool) (*Raster, error) {
	const op = "bandup"

	if bands < 1 {
		return nil, opErrorf(op, ErrIncompatibleBands, "cannot make %d bands", bands)
	}
	if r.bands == bands {
		return r, nil
	}
	if r.bands != 1 {
		return nil, opErrorf(op, ErrIncompatibleBands, "image has %d bands, must have 1 or %d", r.bands, bands)
	}
	if r.coding != CodingNone {
		return nil, opError(op, ErrNotUncoded)
	}

	src, err := r.View()
	if err != nil {
		return nil, opError(op, err)
	}
	out, err := r.derive(bands, r.format, pool)
	if err != nil {
		return nil, opError(op, err)
	}
	dst, err := out.View()
	if err != nil {
		out.Close()
		return nil, opError(op, err)
	}

	size := r.format.Size()
	for y := 0; y < r.height; y++ {
		in := src.Row(y)
		o := dst.Row(y)
		for x := 0; x < r.width; x++ {
			sample := in[x*size : (x+1)*size]
			base := x * bands * size
			for b := 0; b < bands; b++ {
				copy(o[base+b*size:], sample)
			}
		}
	}

	return out, nil
}
