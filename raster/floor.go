package raster

import "math"

// Floor returns a new raster where every sample is the largest integer not
// greater than the input sample. Integer rasters are copied unchanged;
// complex rasters have both components rounded. The output format is the
// input format.
func Floor(in *Raster) (*Raster, error) {
	const op = "floor"

	if in.coding != CodingNone {
		return nil, opError(op, ErrNotUncoded)
	}
	src, err := in.View()
	if err != nil {
		return nil, opError(op, err)
	}
	out, err := in.derive(in.bands, in.format, nil)
	if err != nil {
		return nil, opError(op, err)
	}
	dst, err := out.View()
	if err != nil {
		return nil, opError(op, err)
	}

	for y := 0; y < in.height; y++ {
		s := src.Row(y)
		d := dst.Row(y)
		switch in.format {
		case FormatFloat, FormatComplex:
			for i := 0; i+4 <= len(s); i += 4 {
				v := math.Float32frombits(byteOrder.Uint32(s[i:]))
				byteOrder.PutUint32(d[i:], math.Float32bits(float32(math.Floor(float64(v)))))
			}
		case FormatDouble, FormatDPComplex:
			for i := 0; i+8 <= len(s); i += 8 {
				v := math.Float64frombits(byteOrder.Uint64(s[i:]))
				byteOrder.PutUint64(d[i:], math.Float64bits(math.Floor(v)))
			}
		default:
			copy(d, s)
		}
	}

	return out, nil
}
