// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voidvoxel/sapm/internal/config"
	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/internal/logging"
	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/orchestrator"
	"github.com/voidvoxel/sapm/pkg/source"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and goes through it for configuration, package
	// sources and output streams.
	App struct {
		Config  ConfigProvider
		Sources SourceFactory
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Sources SourceFactory
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// SourceFactory builds the package source for a project.
	SourceFactory func(req SourceRequest) (source.Source, error)

	// SourceRequest carries what a SourceFactory needs to know about the
	// project being operated on.
	SourceRequest struct {
		Config     *config.Config
		ProjectDir string
		InstallDir string
		Logger     *log.Logger
		// Output receives package manager output; io.Discard unless verbose.
		Output io.Writer
	}

	// globalFlags are the persistent flags shared by every command.
	globalFlags struct {
		verbose    bool
		configPath string
		cwd        string
	}

	// project is everything a package command needs for one invocation.
	project struct {
		cfg     *config.Config
		orch    *orchestrator.Orchestrator
		logger  *log.Logger
		verbose bool
	}

	// projectOptions are per-command orchestrator settings.
	projectOptions struct {
		saveDev bool
		strict  bool
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Sources == nil {
		deps.Sources = defaultSourceFactory
	}

	return &App{
		Config:  deps.Config,
		Sources: deps.Sources,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}, nil
}

// defaultSourceFactory returns the source selected by source.kind.
func defaultSourceFactory(req SourceRequest) (source.Source, error) {
	switch req.Config.Source.Kind {
	case config.SourceDirectory:
		registry := resolveAgainst(req.ProjectDir, req.Config.Source.RegistryDir)
		return source.NewDirectorySource(registry, req.InstallDir,
			source.WithDirectoryLogger(req.Logger),
		), nil
	case config.SourceShell, "":
		return source.NewShellSource(req.ProjectDir, req.InstallDir,
			source.WithInstallCommand(req.Config.Source.InstallCommand),
			source.WithUninstallCommand(req.Config.Source.UninstallCommand),
			source.WithOutput(req.Output, req.Output),
			source.WithShellLogger(req.Logger),
		), nil
	default:
		return nil, &config.InvalidSourceKindError{Value: req.Config.Source.Kind}
	}
}

// loadConfig loads configuration honoring --config and looking for a local
// sapm.cue in the project directory.
func (a *App) loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	baseDir, err := projectPath(flags)
	if err != nil {
		return nil, err
	}
	if filepath.Base(baseDir) == manifest.FileName {
		baseDir = filepath.Dir(baseDir)
	}
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        baseDir,
	})
}

// layout is where a project's files live.
type layout struct {
	manifestPath string
	projectDir   string
	installDir   string
}

// resolveLayout locates package.json and the install directory for the
// selected project.
func resolveLayout(flags *globalFlags, cfg *config.Config) (layout, error) {
	path, err := projectPath(flags)
	if err != nil {
		return layout{}, err
	}
	manifestPath, err := manifest.Resolve(path)
	if err != nil {
		return layout{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	l := layout{
		manifestPath: manifestPath,
		projectDir:   filepath.Dir(manifestPath),
	}
	l.installDir = orchestrator.DefaultInstallDir(l.projectDir)
	if cfg.InstallDir != "" {
		l.installDir = resolveAgainst(l.projectDir, cfg.InstallDir)
	}
	return l, nil
}

// openProject loads configuration and builds the orchestrator for the
// selected project directory. A missing package.json is created.
func (a *App) openProject(ctx context.Context, flags *globalFlags, opts projectOptions) (*project, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := logging.New(a.stderr, verbose)

	l, err := resolveLayout(flags, cfg)
	if err != nil {
		return nil, err
	}

	output := io.Discard
	if verbose {
		output = a.stderr
	}
	src, err := a.Sources(SourceRequest{
		Config:     cfg,
		ProjectDir: l.projectDir,
		InstallDir: l.installDir,
		Logger:     logger,
		Output:     output,
	})
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(l.manifestPath, src,
		orchestrator.WithLogger(logger),
		orchestrator.WithInstallDir(l.installDir),
		orchestrator.WithTimeout(cfg.Timeout),
		orchestrator.WithSaveDev(opts.saveDev),
		orchestrator.WithStrictVersions(opts.strict || cfg.StrictVersions),
	)
	if err != nil {
		return nil, err
	}

	return &project{cfg: cfg, orch: orch, logger: logger, verbose: verbose}, nil
}

// wrapProjectError attaches the project path and catalog suggestions to a
// failure that happened before any specifier was processed.
func wrapProjectError(err error, flags *globalFlags) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	resource := flags.cwd
	if resource == "" {
		resource = "."
	}
	return issue.Wrap(err, "open project", resource)
}

// projectPath returns the --cwd value made absolute, or the working
// directory.
func projectPath(flags *globalFlags) (string, error) {
	if flags.cwd != "" {
		return filepath.Abs(flags.cwd)
	}
	return os.Getwd()
}

func resolveAgainst(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
