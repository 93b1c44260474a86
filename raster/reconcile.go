package raster

// Reconcile returns a raster holding src's pixels with the given band count,
// format and coding, ready for a byte-for-byte copy into an image of that
// shape.
//
// The codings must match exactly; coded pixels are never converted. For
// uncoded rasters a single band is duplicated up to bands, then samples are
// cast to format. src must have bands bands or exactly one.
//
// The result is src itself when nothing needed converting. Otherwise it is a
// new raster owned by the caller, who should Close it when done.
func Reconcile(src *Raster, bands int, format BandFormat, coding Coding) (*Raster, error) {
	return reconcile(src, bands, format, coding, nil)
}

func reconcile(src *Raster, bands int, format BandFormat, coding Coding, pool *BufferPool) (*Raster, error) {
	const op = "reconcile"

	if err := checkCompatible(op, src, bands, coding); err != nil {
		return nil, err
	}

	if coding != CodingNone {
		if src.bands != bands || src.format != format {
			return nil, opErrorf(op, ErrIncompatibleCoding,
				"%s coded images cannot be converted to %d bands of %s", coding, bands, format)
		}
		return src, nil
	}

	im := src
	if im.bands != bands {
		t, err := bandup(im, bands, pool)
		if err != nil {
			return nil, err
		}
		Logger().Debug("raster: duplicated bands", "from", im.bands, "to", bands)
		im = t
	}
	if im.format != format {
		t, err := cast(im, format, pool)
		if im != src {
			im.Close()
		}
		if err != nil {
			return nil, err
		}
		Logger().Debug("raster: cast samples", "from", src.format, "to", format)
		im = t
	}
	return im, nil
}

// checkCompatible applies the coding and band rules shared by reconciliation
// and painting.
func checkCompatible(op string, src *Raster, bands int, coding Coding) error {
	if !IsKnownCoding(coding) {
		return opErrorf(op, ErrIncompatibleCoding, "coding %d is not known", int(coding))
	}
	if src.coding != coding {
		return opErrorf(op, ErrIncompatibleCoding, "sub-image coding %s does not match %s", src.coding, coding)
	}
	if src.bands != bands && src.bands != 1 {
		return opErrorf(op, ErrIncompatibleBands, "sub-image has %d bands, must have 1 or %d", src.bands, bands)
	}
	return nil
}
