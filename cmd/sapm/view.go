// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/orchestrator"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
	"github.com/voidvoxel/sapm/pkg/source"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const viewWordWrap = 80

func newViewCommand(app *App, flags *globalFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "view <package>",
		Short: "Show the README of an installed package",
		Long: `Show the README of an installed package, rendered as terminal markdown.
Packages without a README show their package.json summary instead.`,
		Example: `  sapm view moment
  sapm view @voidvoxel/position-3d --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dep, err := pkgspec.ParseDependency(args[0])
			if err != nil {
				return issue.Wrap(err, "view package", args[0])
			}

			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			l, err := resolveLayout(flags, cfg)
			if err != nil {
				return err
			}

			dir, err := source.PackageDir(l.installDir, dep.Name)
			if err != nil {
				return issue.Wrap(err, "view package", dep.Name.String())
			}
			if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
				return issue.Wrap(orchestrator.ErrNotInstalled, "view package", dep.Name.String())
			}

			doc, err := packageDocument(dir)
			if err != nil {
				return issue.Wrap(err, "view package", dep.Name.String())
			}
			if raw {
				fmt.Fprint(app.stdout, doc)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(cfg.UI.ColorScheme.GlamourStyle()),
				glamour.WithWordWrap(viewWordWrap),
			)
			if err != nil {
				return fmt.Errorf("failed to create markdown renderer: %w", err)
			}
			out, err := renderer.Render(doc)
			if err != nil {
				return fmt.Errorf("failed to render README: %w", err)
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source without rendering")
	return cmd
}

// packageDocument returns the package README, or a markdown summary built
// from its package.json when there is none.
func packageDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if !e.IsDir() && (name == "readme.md" || name == "readme.markdown" || name == "readme") {
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}

	m, err := manifest.Load(dir)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.Name)
	if m.Version != "" {
		fmt.Fprintf(&sb, "Version: `%s`\n\n", m.Version)
	}
	if len(m.Dependencies) > 0 {
		sb.WriteString("## Dependencies\n\n")
		for _, name := range m.DependencyNames() {
			fmt.Fprintf(&sb, "- %s `%s`\n", name, m.Dependencies[name])
		}
	}
	return sb.String(), nil
}
