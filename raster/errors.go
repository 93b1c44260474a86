package raster

import (
	"errors"
	"fmt"
)

// Raster errors
var (
	ErrIncompatibleCoding = errors.New("raster: incompatible coding")
	ErrIncompatibleBands  = errors.New("raster: incompatible band count")
	ErrIO                 = errors.New("raster: pixel data unavailable")
	ErrInvalidFormat      = errors.New("raster: invalid band format")
	ErrInvalidDimensions  = errors.New("raster: invalid dimensions")
	ErrNotUncoded         = errors.New("raster: image must be uncoded")
	ErrOutOfBounds        = errors.New("raster: rectangle out of bounds")
)

// OpError records the operation that failed along with the underlying error.
// Op is the short operation name, for example "draw_image" or "cast".
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// opError wraps err for op. Existing OpErrors are returned unchanged so the
// innermost operation name is kept.
func opError(op string, err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, Err: err}
}

// opErrorf wraps a sentinel with extra detail.
func opErrorf(op string, sentinel error, format string, args ...any) error {
	return &OpError{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
