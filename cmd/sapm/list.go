// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
	"github.com/voidvoxel/sapm/pkg/source"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// listEntry is one row of `sapm list`.
type listEntry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Dev       bool   `json:"dev"`
	Installed string `json:"installed,omitempty"`
}

func newListCommand(app *App, flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the dependencies recorded in package.json",
		Long: `List the dependencies recorded in package.json together with the
version found in the install directory, if any. package.json is not
created when it is missing.`,
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
			m, err := manifest.Load(l.manifestPath)
			if err != nil {
				return issue.Wrap(err, "load manifest", l.manifestPath)
			}

			entries, err := collectEntries(afero.NewOsFs(), l.installDir, m)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			printEntries(app.stdout, m, entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

func collectEntries(fsys afero.Fs, installDir string, m *manifest.Manifest) ([]listEntry, error) {
	entries := make([]listEntry, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, e := range m.Entries() {
		row := listEntry{Name: e.Name, Version: string(e.Version), Dev: e.Dev}
		name, err := pkgspec.ParseName(e.Name)
		if err != nil {
			entries = append(entries, row)
			continue
		}
		installed, err := source.InstalledVersion(fsys, installDir, name)
		if err != nil && !errors.Is(err, manifest.ErrInvalidManifest) {
			return nil, err
		}
		row.Installed = installed
		entries = append(entries, row)
	}
	return entries, nil
}

func printEntries(w io.Writer, m *manifest.Manifest, entries []listEntry) {
	header := m.Name
	if m.Version != "" {
		header += "@" + m.Version
	}
	fmt.Fprintln(w, TitleStyle.Render(header))

	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no dependencies)"))
		return
	}
	for _, e := range entries {
		line := "  " + CmdStyle.Render(e.Name) + " " + VerboseStyle.Render(e.Version)
		if e.Dev {
			line += " " + devTagStyle.Render("(dev)")
		}
		switch {
		case e.Installed == "":
			line += " " + WarningStyle.Render("not installed")
		case e.Installed != e.Version:
			line += " " + SubtitleStyle.Render("installed "+e.Installed)
		}
		fmt.Fprintln(w, line)
	}
}
