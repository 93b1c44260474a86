// Command rasterdraw paints images into images.
package main

import (
	"os"

	"github.com/mrjoshuak/go-raster/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
