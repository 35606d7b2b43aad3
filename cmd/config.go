package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/config"
	"github.com/msalah0e/strainscope/internal/logging"
	"github.com/msalah0e/strainscope/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Banner("config")
			row := func(label, value string) {
				fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-12s", label), value)
			}
			row("Config", config.Path())
			row("Overlays", config.LineageDir())
			row("State", config.StateDir())
			logFile := cfg.Log.File
			if logFile == "" {
				logFile = logging.DefaultFile()
			}
			row("Log", logFile)
			fmt.Fprintln(ui.Out)
			fmt.Fprintln(ui.Out, "  `strainscope config show` prints the effective settings")
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(ui.Out, config.Path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with the defaults if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.EnsureExists(); err != nil {
					return fmt.Errorf("writing %s: %w", config.Path(), err)
				}
				fmt.Fprintf(ui.Out, "  %s %s\n", ui.StatusIcon(true), config.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return toml.NewEncoder(ui.Out).Encode(cfg)
			},
		},
	)
	return cmd
}
