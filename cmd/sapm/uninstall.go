// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall [package...]",
		Aliases: []string{"un", "remove", "rm"},
		Short:   "Remove packages and their package.json entries",
		Long: `Remove packages and their package.json entries.

A package that package.json does not list is reported as not installed.
A version in the specifier is ignored.

Without arguments, every dependency recorded in package.json is removed.`,
		Example: `  sapm uninstall moment
  sapm uninstall @voidvoxel/position-3d block-stream
  sapm uninstall`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.openProject(cmd.Context(), flags, projectOptions{})
			if err != nil {
				return wrapProjectError(err, flags)
			}
			if len(args) > 0 {
				return finishBatch(app, p, "uninstall package", p.orch.Uninstall(cmd.Context(), args...))
			}

			outcomes := p.orch.UninstallAll(cmd.Context())
			if len(outcomes) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No dependencies to uninstall"))
				return nil
			}
			return finishBatch(app, p, "uninstall package", outcomes)
		},
	}
}
