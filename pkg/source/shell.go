// SPDX-License-Identifier: MPL-2.0

package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/voidvoxel/sapm/internal/logging"
	"github.com/voidvoxel/sapm/pkg/pkgspec"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// DefaultInstallCommand installs one package with npm without letting npm
	// touch package.json; sapm records the dependency itself.
	// npm always installs into <prefix>/node_modules, so the prefix is the
	// parent of the install directory.
	DefaultInstallCommand = `npm install --no-save --prefix "$SAPM_INSTALL_PREFIX" "$SAPM_SPEC"`
	// DefaultUninstallCommand removes one package with npm.
	DefaultUninstallCommand = `npm uninstall --no-save --prefix "$SAPM_INSTALL_PREFIX" "$SAPM_NAME"`

	// exitCommandNotFound is the status the interpreter reports when the
	// package manager binary is missing.
	exitCommandNotFound = 127
)

// Variables exported to command templates.
const (
	EnvName       = "SAPM_NAME"
	EnvVersion    = "SAPM_VERSION"
	EnvSpec       = "SAPM_SPEC"
	EnvProject    = "SAPM_PROJECT"
	EnvInstallDir = "SAPM_INSTALL_DIR"
	// EnvInstallPrefix is the parent directory of SAPM_INSTALL_DIR.
	EnvInstallPrefix = "SAPM_INSTALL_PREFIX"
)

// notFoundPattern matches package manager output for a missing package or
// version (npm ETARGET/E404, yarn and pnpm equivalents).
var notFoundPattern = regexp.MustCompile(`(?i)\bETARGET\b|\bE404\b|no matching version|404 not found|couldn't find any versions|no versions available`)

type (
	// ShellSource runs package manager commands through the embedded shell
	// interpreter. Command templates are POSIX shell and see the SAPM_*
	// variables plus the process environment.
	ShellSource struct {
		projectDir   string
		installDir   string
		installCmd   string
		uninstallCmd string
		fs           afero.Fs
		env          []string
		stdout       io.Writer
		stderr       io.Writer
		execHandlers []func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc
		logger       *log.Logger
	}

	// ShellOption configures a ShellSource.
	ShellOption func(*ShellSource)
)

// WithInstallCommand overrides DefaultInstallCommand.
func WithInstallCommand(script string) ShellOption {
	return func(s *ShellSource) {
		if script != "" {
			s.installCmd = script
		}
	}
}

// WithUninstallCommand overrides DefaultUninstallCommand.
func WithUninstallCommand(script string) ShellOption {
	return func(s *ShellSource) {
		if script != "" {
			s.uninstallCmd = script
		}
	}
}

// WithShellFs sets the filesystem used to read installed package metadata.
func WithShellFs(fsys afero.Fs) ShellOption {
	return func(s *ShellSource) { s.fs = fsys }
}

// WithEnv replaces the inherited process environment.
func WithEnv(env []string) ShellOption {
	return func(s *ShellSource) { s.env = env }
}

// WithOutput sets where command output is echoed. Output is always captured
// for error classification as well.
func WithOutput(stdout, stderr io.Writer) ShellOption {
	return func(s *ShellSource) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithExecHandlers installs interpreter exec middleware, e.g. to stub the
// package manager binary.
func WithExecHandlers(handlers ...func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc) ShellOption {
	return func(s *ShellSource) { s.execHandlers = append(s.execHandlers, handlers...) }
}

// WithShellLogger sets the logger.
func WithShellLogger(l *log.Logger) ShellOption {
	return func(s *ShellSource) { s.logger = logging.Component(l, "shell-source") }
}

// NewShellSource creates a source that runs commands in projectDir and reads
// installed versions from installDir.
func NewShellSource(projectDir, installDir string, opts ...ShellOption) *ShellSource {
	s := &ShellSource{
		projectDir:   projectDir,
		installDir:   installDir,
		installCmd:   DefaultInstallCommand,
		uninstallCmd: DefaultUninstallCommand,
		fs:           afero.NewOsFs(),
		env:          os.Environ(),
		stdout:       io.Discard,
		stderr:       io.Discard,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Install runs the install command for name@req and reports the version the
// package manager placed in the install directory.
func (s *ShellSource) Install(ctx context.Context, name pkgspec.PackageName, req pkgspec.VersionRequirement) (Result, error) {
	dep := pkgspec.NewDependency(name, req)
	version := ""
	if !req.IsUnconstrained() {
		version = req.String()
	}

	if err := s.run(ctx, opInstall, name, s.installCmd, map[string]string{
		EnvName:    name.String(),
		EnvVersion: version,
		EnvSpec:    dep.String(),
	}); err != nil {
		return Result{}, err
	}

	installed, err := InstalledVersion(s.fs, s.installDir, name)
	if err != nil {
		s.logger.Warn("could not read installed version", "package", name.String(), "error", err)
	}
	return Result{InstalledVersion: installed}, nil
}

// Uninstall runs the uninstall command for name.
func (s *ShellSource) Uninstall(ctx context.Context, name pkgspec.PackageName) error {
	return s.run(ctx, opUninstall, name, s.uninstallCmd, map[string]string{
		EnvName: name.String(),
		EnvSpec: name.String(),
	})
}

// IsInstalled checks the install directory; no command is run.
func (s *ShellSource) IsInstalled(ctx context.Context, name pkgspec.PackageName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable(opQuery, name, err)
	}
	ok, err := isPresent(s.fs, s.installDir, name)
	if err != nil {
		return false, unavailable(opQuery, name, err)
	}
	return ok, nil
}

func (s *ShellSource) run(ctx context.Context, op string, name pkgspec.PackageName, script string, vars map[string]string) error {
	if err := ctx.Err(); err != nil {
		return unavailable(op, name, err)
	}
	if _, err := PackageDir(s.installDir, name); err != nil {
		return unavailable(op, name, err)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), op)
	if err != nil {
		return unavailable(op, name, fmt.Errorf("failed to parse %s command: %w", op, err))
	}

	env := append([]string{}, s.env...)
	env = append(env,
		EnvProject+"="+s.projectDir,
		EnvInstallDir+"="+s.installDir,
		EnvInstallPrefix+"="+filepath.Dir(s.installDir),
	)
	for k, v := range vars {
		env = append(env, k+"="+v)
	}

	var captured bytes.Buffer
	runner, err := interp.New(
		interp.Dir(s.projectDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, io.MultiWriter(s.stdout, &captured), io.MultiWriter(s.stderr, &captured)),
		interp.ExecHandlers(s.execHandlers...),
	)
	if err != nil {
		return unavailable(op, name, fmt.Errorf("failed to create interpreter: %w", err))
	}

	s.logger.Debug("running package manager", "op", op, "package", name.String(), "spec", vars[EnvSpec])
	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}
	return classify(ctx, op, name, err, captured.String())
}

// classify maps a failed command to ErrVersionNotFound or ErrSourceUnavailable.
func classify(ctx context.Context, op string, name pkgspec.PackageName, err error, output string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return unavailable(op, name, ctxErr)
	}

	var status interp.ExitStatus
	if !errors.As(err, &status) {
		return unavailable(op, name, err)
	}
	if status == exitCommandNotFound {
		return unavailable(op, name, fmt.Errorf("package manager not found (exit status %d)", status))
	}
	if op == opInstall && notFoundPattern.MatchString(output) {
		return notFound(op, name, fmt.Errorf("exit status %d: %s", status, lastLine(output)))
	}
	return unavailable(op, name, fmt.Errorf("exit status %d: %s", status, lastLine(output)))
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
