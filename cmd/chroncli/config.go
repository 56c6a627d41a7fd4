package main

import (
	"errors"
	"fmt"
	"os"

	"chroncli/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the config file location and the configuration in effect after
defaults and overrides are applied. With --init, write the defaults to the
config file if it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			path := config.Path()

			if initFile {
				if path == "" {
					return errors.New("no config directory available")
				}
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := config.Default().Save(); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(out, "✓ Wrote default config to %s\n", path)
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("serialize config: %w", err)
			}
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprintf(out, "# data dir: %s\n", cfg.GetDataDir())
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "write a default config file")
	return cmd
}
