// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE renders the configuration as a loadable config.cue.
	FormatCUE Format = "cue"
	// FormatTOML renders the configuration as TOML.
	FormatTOML Format = "toml"
	// FormatJSON renders the configuration as indented JSON.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by Render for a format it cannot print.
var ErrUnknownFormat = errors.New("unknown format")

type (
	// Format selects how Render prints a Config.
	Format string

	// document is the rendering shape of Config. Durations are strings so
	// every format prints "5m0s" rather than nanoseconds.
	document struct {
		InstallDir     string         `json:"install_dir" toml:"install_dir"`
		Timeout        string         `json:"timeout" toml:"timeout"`
		StrictVersions bool           `json:"strict_versions" toml:"strict_versions"`
		Source         sourceDocument `json:"source" toml:"source"`
		UI             uiDocument     `json:"ui" toml:"ui"`
	}

	sourceDocument struct {
		Kind             string `json:"kind" toml:"kind"`
		RegistryDir      string `json:"registry_dir,omitempty" toml:"registry_dir,omitempty"`
		InstallCommand   string `json:"install_command,omitempty" toml:"install_command,omitempty"`
		UninstallCommand string `json:"uninstall_command,omitempty" toml:"uninstall_command,omitempty"`
	}

	uiDocument struct {
		ColorScheme string `json:"color_scheme" toml:"color_scheme"`
		Verbose     bool   `json:"verbose" toml:"verbose"`
	}
)

// Render prints cfg in the requested format.
func Render(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		return toml.Marshal(newDocument(cfg))
	case FormatJSON:
		data, err := json.MarshalIndent(newDocument(cfg), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q (valid: cue, toml, json)", ErrUnknownFormat, format)
	}
}

func newDocument(cfg *Config) document {
	return document{
		InstallDir:     cfg.InstallDir,
		Timeout:        cfg.Timeout.String(),
		StrictVersions: cfg.StrictVersions,
		Source: sourceDocument{
			Kind:             string(cfg.Source.Kind),
			RegistryDir:      cfg.Source.RegistryDir,
			InstallCommand:   cfg.Source.InstallCommand,
			UninstallCommand: cfg.Source.UninstallCommand,
		},
		UI: uiDocument{
			ColorScheme: string(cfg.UI.ColorScheme),
			Verbose:     cfg.UI.Verbose,
		},
	}
}

// GenerateCUE generates a CUE representation of the configuration that
// loads back to the same values.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// sapm configuration file\n")
	sb.WriteString("// Every field is optional. Environment variables such as\n")
	sb.WriteString("// SAPM_SOURCE_KIND override the values below.\n\n")

	if cfg.InstallDir != "" {
		fmt.Fprintf(&sb, "install_dir: %q\n", cfg.InstallDir)
	}
	fmt.Fprintf(&sb, "timeout: %q\n", cfg.Timeout.String())
	fmt.Fprintf(&sb, "strict_versions: %v\n", cfg.StrictVersions)

	sb.WriteString("\nsource: {\n")
	fmt.Fprintf(&sb, "\tkind: %q\n", cfg.Source.Kind)
	if cfg.Source.RegistryDir != "" {
		fmt.Fprintf(&sb, "\tregistry_dir: %q\n", cfg.Source.RegistryDir)
	}
	if cfg.Source.InstallCommand != "" {
		fmt.Fprintf(&sb, "\tinstall_command: %q\n", cfg.Source.InstallCommand)
	}
	if cfg.Source.UninstallCommand != "" {
		fmt.Fprintf(&sb, "\tuninstall_command: %q\n", cfg.Source.UninstallCommand)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
