// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/voidvoxel/sapm/internal/logging"
	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
	"github.com/voidvoxel/sapm/pkg/source"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// InstallDirName is the install directory created under the project root
// unless WithInstallDir says otherwise.
const InstallDirName = "node_modules"

type (
	// Orchestrator drives a Source and keeps the project manifest in sync.
	Orchestrator struct {
		projectDir   string
		manifestPath string
		installDir   string

		fs       afero.Fs
		src      source.Source
		manifest *manifest.Manifest
		logger   *log.Logger

		timeout time.Duration
		saveDev bool
		strict  bool
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)
)

// WithFs sets the filesystem holding the manifest.
func WithFs(fsys afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fsys }
}

// WithLogger sets the logger. State transitions are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.Component(l, "orchestrator") }
}

// WithInstallDir overrides the default <project>/node_modules.
func WithInstallDir(dir string) Option {
	return func(o *Orchestrator) { o.installDir = dir }
}

// WithTimeout bounds every individual source call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithSaveDev records installed packages in devDependencies.
func WithSaveDev(dev bool) Option {
	return func(o *Orchestrator) { o.saveDev = dev }
}

// WithStrictVersions makes CheckSatisfied compare versions: a recorded
// version that does not satisfy the requested range is reinstalled.
// By default the presence of the name is enough.
func WithStrictVersions(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

// DefaultInstallDir returns <projectDir>/node_modules.
func DefaultInstallDir(projectDir string) string {
	return filepath.Join(projectDir, InstallDirName)
}

// New creates an Orchestrator for the project at projectPath (a directory
// or a package.json path). The manifest is loaded once; when it does not
// exist the default template is created and written immediately.
func New(projectPath string, src source.Source, opts ...Option) (*Orchestrator, error) {
	if src == nil {
		return nil, errors.New("orchestrator: nil package source")
	}

	manifestPath, err := manifest.Resolve(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	o := &Orchestrator{
		projectDir:   filepath.Dir(manifestPath),
		manifestPath: manifestPath,
		fs:           afero.NewOsFs(),
		src:          src,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.installDir == "" {
		o.installDir = DefaultInstallDir(o.projectDir)
	}

	m, created, err := manifest.LoadOrDefault(o.fs, manifestPath)
	if err != nil {
		return nil, err
	}
	if created {
		if err := m.SaveFs(o.fs, manifestPath); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManifestWriteFailed, err)
		}
		o.logger.Debug("created manifest", "path", manifestPath)
	}
	o.manifest = m

	return o, nil
}

// ProjectDir returns the directory containing the manifest.
func (o *Orchestrator) ProjectDir() string { return o.projectDir }

// ManifestPath returns the absolute path of package.json.
func (o *Orchestrator) ManifestPath() string { return o.manifestPath }

// InstallDir returns the directory packages are installed into.
func (o *Orchestrator) InstallDir() string { return o.installDir }

// Manifest returns a copy of the in-memory manifest.
func (o *Orchestrator) Manifest() *manifest.Manifest { return o.manifest.Clone() }

// Dependencies lists the recorded dependencies, regular ones first, each
// group sorted by name.
func (o *Orchestrator) Dependencies() []manifest.Entry { return o.manifest.Entries() }

// IsInstalled answers from the manifest alone. With strict versions the
// recorded version must also satisfy req.
func (o *Orchestrator) IsInstalled(name pkgspec.PackageName, req pkgspec.VersionRequirement) bool {
	entry, ok := o.manifest.Lookup(name)
	return ok && o.satisfied(entry, req)
}

func (o *Orchestrator) satisfied(entry manifest.Entry, req pkgspec.VersionRequirement) bool {
	if !o.strict || req.IsUnconstrained() {
		return true
	}
	return req.Satisfies(string(entry.Version))
}

// call runs fn against the source with the configured timeout and classifies
// any failure as ErrSourceUnavailable or ErrVersionNotFound.
func (o *Orchestrator) call(ctx context.Context, fn func(context.Context) error) error {
	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, source.ErrVersionNotFound), errors.Is(err, source.ErrSourceUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
	}
}

// commit applies mutate to the manifest and saves it. If the save fails the
// in-memory manifest is restored, matching the untouched file on disk.
func (o *Orchestrator) commit(mutate func(*manifest.Manifest)) error {
	prev := o.manifest.Clone()
	mutate(o.manifest)
	if err := o.manifest.SaveFs(o.fs, o.manifestPath); err != nil {
		o.manifest = prev
		o.logger.Error("manifest write failed", "path", o.manifestPath, "error", err)
		return fmt.Errorf("%w: %w", ErrManifestWriteFailed, err)
	}
	return nil
}

func (o *Orchestrator) step(raw string, s Step) {
	o.logger.Debug("transition", "specifier", raw, "step", s.String())
}

func (o *Orchestrator) finish(out Outcome) Outcome {
	if out.Failed() {
		o.logger.Debug("finished", "specifier", out.Specifier, "state", out.State.String(), "error", out.Err)
	} else {
		o.logger.Debug("finished", "specifier", out.Specifier, "state", out.State.String(), "version", out.Version)
	}
	return out
}

func failed(out Outcome, err error) Outcome {
	out.State = StateFailed
	out.Err = err
	return out
}
