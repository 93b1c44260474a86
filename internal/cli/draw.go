package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

var (
	drawImageOutput string
	drawRectOutput  string
	drawRectInk     []float64
)

var drawImageCmd = &cobra.Command{
	Use:   "draw-image <main> <sub> <x> <y>",
	Short: "Paint one image into another",
	Long: `Paint <sub> into <main> with its top-left pixel at (<x>, <y>) and
write the result to -o.

<sub> is converted to <main>'s band format. A one-band <sub> is copied into
every band of <main>. Parts of <sub> outside <main> are dropped.

Examples:
  rasterdraw draw-image photo.png logo.png 10 10 -o out.png
  rasterdraw draw-image big.v tile.v -- -64 -64 -o big2.v`,
	Args: cobra.ExactArgs(4),
	RunE: runDrawImage,
}

var drawRectCmd = &cobra.Command{
	Use:   "draw-rect <main> <left> <top> <width> <height>",
	Short: "Fill a rectangle with a constant",
	Long: `Fill a rectangle of <main> with --ink and write the result to -o.

--ink holds one value per band, or one value for every band.

Example:
  rasterdraw draw-rect photo.png 0 0 32 32 --ink 255,0,0 -o out.png`,
	Args: cobra.ExactArgs(5),
	RunE: runDrawRect,
}

func init() {
	drawImageCmd.Flags().StringVarP(&drawImageOutput, "output", "o", "", `output file ("-" for a native stream on stdout)`)
	_ = drawImageCmd.MarkFlagRequired("output")

	drawRectCmd.Flags().StringVarP(&drawRectOutput, "output", "o", "", `output file ("-" for a native stream on stdout)`)
	drawRectCmd.Flags().Float64SliceVar(&drawRectInk, "ink", []float64{0}, "ink values, comma separated")
	_ = drawRectCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(drawImageCmd)
	rootCmd.AddCommand(drawRectCmd)
}

func parseInts(names []string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", names[i], a)
		}
		out[i] = v
	}
	return out, nil
}

func runDrawImage(cmd *cobra.Command, args []string) error {
	pos, err := parseInts([]string{"x", "y"}, args[2:])
	if err != nil {
		return err
	}

	image, err := rasterfile.Read(args[0], readOptions()...)
	if err != nil {
		return err
	}
	defer image.Close()
	sub, err := rasterfile.Read(args[1], readOptions()...)
	if err != nil {
		return err
	}
	defer sub.Close()

	if err := raster.DrawImage(image, sub, pos[0], pos[1]); err != nil {
		return err
	}
	return writeOutput(cmd, image, drawImageOutput)
}

func runDrawRect(cmd *cobra.Command, args []string) error {
	v, err := parseInts([]string{"left", "top", "width", "height"}, args[1:])
	if err != nil {
		return err
	}
	if v[2] < 0 || v[3] < 0 {
		return fmt.Errorf("negative size %dx%d", v[2], v[3])
	}

	image, err := rasterfile.Read(args[0], readOptions()...)
	if err != nil {
		return err
	}
	defer image.Close()

	area := raster.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
	if err := raster.DrawRect(image, drawRectInk, area); err != nil {
		return err
	}
	return writeOutput(cmd, image, drawRectOutput)
}
