package rasterfile

import (
	"errors"
	"fmt"
)

// File errors
var (
	ErrNotFound        = errors.New("rasterfile: file not found")
	ErrUnknownFormat   = errors.New("rasterfile: not a known file format")
	ErrUnsupportedSave = errors.New("rasterfile: format cannot be saved")
	ErrUnsupported     = errors.New("rasterfile: image not supported by format")
	ErrCorrupt         = errors.New("rasterfile: corrupt file")
)

// FormatError records the format and file involved in a load or save
// failure.
type FormatError struct {
	Format   string
	Filename string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rasterfile: %s %s: %v", e.Format, e.Filename, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
