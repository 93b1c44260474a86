package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrjoshuak/go-raster/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage rasterdraw configuration.

Subcommands:
  show    print the configuration in effect
  init    write a default configuration file
  path    print the configuration file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration in effect",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		if err := loader.Init(configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", loader.ConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "# file: %s\n", loader.ConfigPath())
	} else {
		fmt.Fprintln(out, "# file: (defaults)")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\n# environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range []string{config.EnvDiscThreshold, config.EnvLogLevel} {
		v := os.Getenv(key)
		if v == "" {
			v = "(unset)"
		}
		fmt.Fprintf(w, "#   %s\t%s\n", key, v)
	}
	return w.Flush()
}
