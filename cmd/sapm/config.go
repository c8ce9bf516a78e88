// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/voidvoxel/sapm/internal/config"
	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/internal/logging"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `sapm config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sapm configuration",
		Long: `Manage sapm configuration.

Configuration is read from the first of:
  1. the file given with --config
  2. the user config file:
       Linux:   ~/.config/sapm/config.cue
       macOS:   ~/Library/Application Support/sapm/config.cue
       Windows: %APPDATA%\sapm\config.cue
     or $SAPM_CONFIG_DIR/config.cue when that variable is set
  3. sapm.cue in the project directory

SAPM_* environment variables override file values, e.g.
SAPM_SOURCE_KIND=directory or SAPM_TIMEOUT=30s.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				if flags.verbose {
					renderIssue(app.stderr, logging.New(app.stderr, flags.verbose), issue.ConfigLoadFailedId, "auto")
				}
				return err
			}
			data, err := config.Render(cfg, config.Format(format))
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("render configuration").
					WithResource(format).
					WithSuggestion("Use --format cue, toml or json").
					Wrap(err).
					BuildError()
			}
			if format == "" || format == string(config.FormatCUE) {
				source := cfg.Path
				if source == "" {
					source = "(defaults)"
				}
				fmt.Fprintln(app.stdout, "// source: "+source)
			}
			_, err = app.stdout.Write(data)
			return err
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "o", string(config.FormatCUE), "output format: cue, toml or json")
	cfgCmd.AddCommand(showCmd)

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, written, err := config.WriteDefault(flags.configPath, force)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("create configuration").
					WithResource(path).
					WithSuggestion("Check write permissions for the config directory").
					Wrap(err).
					BuildError()
			}
			if !written {
				fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Configuration already exists:"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				fmt.Fprintln(app.stdout, cfg.Path)
				return nil
			}
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n", path, SubtitleStyle.Render("(not created, using defaults)"))
			return nil
		},
	})

	return cfgCmd
}
