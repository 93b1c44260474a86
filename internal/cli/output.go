package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

// stdoutName selects standard output, which receives a native .v stream.
const stdoutName = "-"

var errTerminal = errors.New("refusing to write image data to a terminal")

// writeOutput saves r to path, or to the command's output as a native file
// when path is "-".
func writeOutput(cmd *cobra.Command, r *raster.Raster, path string) error {
	if path != stdoutName {
		return rasterfile.Write(r, path)
	}

	w := cmd.OutOrStdout()
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errTerminal
	}
	s, err := rasterfile.FindSave("out.v")
	if err != nil {
		return err
	}
	if err := raster.EnsureResident(r); err != nil {
		return err
	}
	if err := s.Save(w, r); err != nil {
		return fmt.Errorf("writing %s to standard output: %w", s.Name(), err)
	}
	return nil
}
