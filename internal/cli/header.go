package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-raster/rasterfile"
)

var headerCmd = &cobra.Command{
	Use:   "header <file>...",
	Short: "Print image headers",
	Long: `Print the size, band count, band format and coding of each file
without decoding its pixels.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHeader,
}

func init() {
	rootCmd.AddCommand(headerCmd)
}

func runHeader(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tLOADER\tWIDTH\tHEIGHT\tBANDS\tFORMAT\tCODING")

	var firstErr error
	for _, name := range args {
		h, l, err := rasterfile.ReadHeader(name, readOptions()...)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			name, l.Name(), h.Width, h.Height, h.Bands, h.Format, h.Coding)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return firstErr
}
