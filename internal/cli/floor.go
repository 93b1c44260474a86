package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

var floorCmd = &cobra.Command{
	Use:   "floor <in> <out>",
	Short: "Round every sample down to an integer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := rasterfile.Read(args[0], readOptions()...)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := raster.Floor(in)
		if err != nil {
			return err
		}
		defer out.Close()
		return writeOutput(cmd, out, args[1])
	},
}

func init() {
	rootCmd.AddCommand(floorCmd)
}
