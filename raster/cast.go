package raster

import "math"

// Cast returns a new raster with every sample of r converted to format.
//
// Integer targets clip to their range and truncate toward zero, NaN becomes
// zero. Casting complex to real takes the modulus; casting real to complex
// sets the imaginary part to zero. r must be uncoded.
func Cast(r *Raster, format BandFormat) (*Raster, error) {
	return cast(r, format, nil)
}

func cast(r *Raster, format BandFormat, pool *BufferPool) (*Raster, error) {
	const op = "cast"

	if r.coding != CodingNone {
		return nil, opError(op, ErrNotUncoded)
	}
	if !format.IsValid() {
		return nil, opError(op, ErrInvalidFormat)
	}
	src, err := r.View()
	if err != nil {
		return nil, opError(op, err)
	}
	out, err := r.derive(r.bands, format, pool)
	if err != nil {
		return nil, opError(op, err)
	}
	dst, err := out.View()
	if err != nil {
		out.Close()
		return nil, opError(op, err)
	}

	inSize := r.format.Size()
	outSize := format.Size()
	modulus := r.format.IsComplex() && !format.IsComplex()
	samples := r.width * r.bands

	for y := 0; y < r.height; y++ {
		in := src.Row(y)
		o := dst.Row(y)
		for i := 0; i < samples; i++ {
			re, im := readSample(in[i*inSize:], r.format)
			if modulus {
				re, im = math.Hypot(re, im), 0
			}
			writeSample(o[i*outSize:], format, re, im)
		}
	}

	return out, nil
}
