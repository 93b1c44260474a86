package raster

import "fmt"

// EnsureResident makes the raster's pixel bytes directly addressable,
// running its deferred loader if it has one. The loader runs at most once:
// a failed load is remembered and returned on every later call.
// Errors wrap ErrIO.
func EnsureResident(r *Raster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return r.loadErr
	}
	if r.load == nil {
		return nil
	}

	load := r.load
	r.load = nil

	pix, stride, closer, err := load()
	if err != nil {
		r.loadErr = fmt.Errorf("%w: %v", ErrIO, err)
		return r.loadErr
	}
	if err := r.checkBuffer(pix, stride); err != nil {
		if closer != nil {
			closer.Close()
		}
		r.loadErr = fmt.Errorf("%w: loader returned %d bytes with stride %d for %dx%d %s x%d",
			ErrIO, len(pix), stride, r.width, r.height, r.format, r.bands)
		return r.loadErr
	}

	r.pix = pix
	r.stride = stride
	r.closer = closer
	Logger().Debug("raster: loaded deferred pixels",
		"width", r.width, "height", r.height, "bytes", len(pix))
	return nil
}
