// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newInstallCommand(app *App, flags *globalFlags) *cobra.Command {
	var opts projectOptions

	cmd := &cobra.Command{
		Use:     "install [specifier...]",
		Aliases: []string{"i", "add"},
		Short:   "Install packages and record them in package.json",
		Long: `Install packages and record them in package.json.

Specifiers are processed one at a time, in order. A package already listed
in package.json is reported as already satisfied and left alone; use
--strict to reinstall when the recorded version does not satisfy the
requested range.

Without arguments, every dependency recorded in package.json that is not
present in the install directory is installed.`,
		Example: `  sapm install moment
  sapm install moment@^2.0.0 @voidvoxel/position-3d
  sapm install -D typescript
  sapm install`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.openProject(cmd.Context(), flags, opts)
			if err != nil {
				return wrapProjectError(err, flags)
			}

			if len(args) == 0 {
				return finishBatch(app, p, "restore package", p.orch.Restore(cmd.Context()))
			}
			return finishBatch(app, p, "install package", p.orch.Install(cmd.Context(), args...))
		},
	}

	cmd.Flags().BoolVarP(&opts.saveDev, "save-dev", "D", false, "record packages in devDependencies")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reinstall when the recorded version does not satisfy the requested range")

	return cmd
}
