// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// SourceShell installs packages by running package manager commands in
	// the embedded shell interpreter.
	SourceShell SourceKind = "shell"
	// SourceDirectory installs packages by copying them from a local
	// registry directory laid out as <registry>/<name>/<version>.
	SourceDirectory SourceKind = "directory"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultTimeout bounds a single package source call.
	DefaultTimeout = 5 * time.Minute

	npmInstallDirName = "node_modules"
)

var (
	// ErrInvalidSourceKind is returned when a SourceKind value is not recognized.
	ErrInvalidSourceKind = errors.New("invalid source kind")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSourceConfig is the sentinel error wrapped by InvalidSourceConfigError.
	ErrInvalidSourceConfig = errors.New("invalid source config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// SourceKind selects the package source implementation.
	SourceKind string

	// InvalidSourceKindError is returned when a SourceKind value is not recognized.
	InvalidSourceKindError struct {
		Value SourceKind
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidSourceConfigError collects field errors of a SourceConfig.
	InvalidSourceConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// InstallDir overrides <project>/node_modules. Relative paths are
		// resolved against the project directory.
		InstallDir string `json:"install_dir" mapstructure:"install_dir"`
		// Timeout bounds each package source call; 0 disables the bound.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
		// StrictVersions makes install compare the recorded version against
		// the requested range instead of only checking the name.
		StrictVersions bool `json:"strict_versions" mapstructure:"strict_versions"`
		// Source configures where packages come from.
		Source SourceConfig `json:"source" mapstructure:"source"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Path is the file the configuration was read from; empty when only
		// defaults and environment apply.
		Path string `json:"-" mapstructure:"-"`
	}

	// SourceConfig configures the package source.
	SourceConfig struct {
		// Kind is "shell" (default) or "directory".
		Kind SourceKind `json:"kind" mapstructure:"kind"`
		// RegistryDir is the local registry root for the directory source.
		RegistryDir string `json:"registry_dir" mapstructure:"registry_dir"`
		// InstallCommand is the shell template run per install.
		InstallCommand string `json:"install_command" mapstructure:"install_command"`
		// UninstallCommand is the shell template run per uninstall.
		UninstallCommand string `json:"uninstall_command" mapstructure:"uninstall_command"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the SourceKind is one of the defined kinds.
func (k SourceKind) IsValid() (bool, []error) {
	switch k {
	case SourceShell, SourceDirectory:
		return true, nil
	default:
		return false, []error{&InvalidSourceKindError{Value: k}}
	}
}

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string { return string(k) }

// Error implements the error interface for InvalidSourceKindError.
func (e *InvalidSourceKindError) Error() string {
	return fmt.Sprintf("invalid source kind %q (valid: shell, directory)", e.Value)
}

// Unwrap returns ErrInvalidSourceKind for errors.Is() compatibility.
func (e *InvalidSourceKindError) Unwrap() error { return ErrInvalidSourceKind }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// GlamourStyle maps the scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the SourceConfig has valid fields. The directory
// source needs a registry; command templates must not be blank when set.
func (c SourceConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Kind.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Kind == SourceDirectory && strings.TrimSpace(c.RegistryDir) == "" {
		errs = append(errs, errors.New("source.registry_dir is required for the directory source"))
	}
	if c.InstallCommand != "" && strings.TrimSpace(c.InstallCommand) == "" {
		errs = append(errs, errors.New("source.install_command must not be blank"))
	}
	if c.UninstallCommand != "" && strings.TrimSpace(c.UninstallCommand) == "" {
		errs = append(errs, errors.New("source.uninstall_command must not be blank"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSourceConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceConfigError.
func (e *InvalidSourceConfigError) Error() string {
	return fmt.Sprintf("invalid source config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidSourceConfig and the field errors.
func (e *InvalidSourceConfigError) Unwrap() []error {
	return append([]error{ErrInvalidSourceConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if valid, fieldErrs := c.Source.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.usesDefaultNpm() && c.InstallDir != "" && filepath.Base(c.InstallDir) != npmInstallDirName {
		errs = append(errs, fmt.Errorf("install_dir %q must end in %s for the default npm commands (or set source.install_command)", c.InstallDir, npmInstallDirName))
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// usesDefaultNpm reports whether the shell source runs the built-in npm
// commands, which can only install into a directory named node_modules.
func (c Config) usesDefaultNpm() bool {
	shell := c.Source.Kind == SourceShell || c.Source.Kind == ""
	return shell && c.Source.InstallCommand == ""
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Source: SourceConfig{
			Kind: SourceShell,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
