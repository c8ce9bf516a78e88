// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/pkg/manifest"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInitCommand(app *App, flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a package.json with the default template",
		Long: `Create a package.json with the default template: the project directory
name, version 0.0.0, main src/index.js and empty dependency maps.
An existing package.json is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			l, err := resolveLayout(flags, cfg)
			if err != nil {
				return err
			}

			fsys := afero.NewOsFs()
			if !force {
				_, loadErr := manifest.LoadFs(fsys, l.manifestPath)
				switch {
				case loadErr == nil:
					fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("package.json already exists:"), l.manifestPath)
					return nil
				case !errors.Is(loadErr, manifest.ErrManifestNotFound):
					return issue.Wrap(loadErr, "load manifest", l.manifestPath)
				}
			}

			if err := manifest.Default(l.projectDir).SaveFs(fsys, l.manifestPath); err != nil {
				return issue.NewErrorContext().
					WithOperation("create manifest").
					WithResource(l.manifestPath).
					WithSuggestions(issue.Get(issue.ManifestWriteFailedId).Suggestions()...).
					Wrap(err).
					BuildError()
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), l.manifestPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing package.json")
	return cmd
}
