// Package cli implements the rasterdraw command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-raster/internal/config"
	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	forceMem   bool
	useMmap    bool
)

var rootCmd = &cobra.Command{
	Use:   "rasterdraw",
	Short: "Paint images into images",
	Long: `rasterdraw paints one image into another, fills rectangles and
inspects image files.

Images are read from local paths or http(s) URLs. Native .v files hold every
band format; png, tiff, bmp and j2k hold 8- and 16-bit images.

Configuration is read from ~/.rasterdraw/config.yaml unless --config is given.
RASTER_DISC_THRESHOLD and RASTER_LOG_LEVEL override the file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rasterdraw %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rasterdraw/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&forceMem, "memory", false, "always decode images into memory")
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "map local input files instead of reading them")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// setup loads the configuration, installs it and sets up logging.
func setup(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	s, err := cfg.Apply()
	if err != nil {
		return fmt.Errorf("%s: %w", loader.ConfigPath(), err)
	}

	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: s.LogLevel})
	raster.SetLogger(slog.New(h))
	return nil
}

func readOptions() []rasterfile.ReadOption {
	var opts []rasterfile.ReadOption
	if forceMem {
		opts = append(opts, rasterfile.WithMemory())
	}
	if useMmap {
		opts = append(opts, rasterfile.WithMmap())
	}
	return opts
}
