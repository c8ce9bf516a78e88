// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/voidvoxel/sapm/internal/logging"
	"github.com/voidvoxel/sapm/pkg/pkgspec"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	opInstall   = "install"
	opUninstall = "uninstall"
	opQuery     = "query"
)

type (
	// DirectorySource installs packages by copying them out of a local
	// registry directory:
	//
	//	<registry>/moment/2.29.4/package.json
	//	<registry>/@voidvoxel/position-3d/1.0.0/package.json
	//
	// Version directories named after a dist-tag (e.g. "next") are matched
	// by tag requirements.
	DirectorySource struct {
		fs         afero.Fs
		registry   string
		installDir string
		logger     *log.Logger
	}

	// DirectoryOption configures a DirectorySource.
	DirectoryOption func(*DirectorySource)
)

// WithDirectoryFs replaces the operating system filesystem.
func WithDirectoryFs(fsys afero.Fs) DirectoryOption {
	return func(s *DirectorySource) { s.fs = fsys }
}

// WithDirectoryLogger sets the logger.
func WithDirectoryLogger(l *log.Logger) DirectoryOption {
	return func(s *DirectorySource) { s.logger = logging.Component(l, "directory-source") }
}

// NewDirectorySource creates a source reading from registry and installing
// into installDir.
func NewDirectorySource(registry, installDir string, opts ...DirectoryOption) *DirectorySource {
	s := &DirectorySource{
		fs:         afero.NewOsFs(),
		registry:   registry,
		installDir: installDir,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Install copies the best matching version of name into the install directory.
func (s *DirectorySource) Install(ctx context.Context, name pkgspec.PackageName, req pkgspec.VersionRequirement) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, unavailable(opInstall, name, err)
	}

	if ok, err := afero.DirExists(s.fs, s.registry); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("registry directory %s does not exist", s.registry)
		}
		return Result{}, unavailable(opInstall, name, err)
	}

	pkgRoot, err := PackageDir(s.registry, name)
	if err != nil {
		return Result{}, notFound(opInstall, name, err)
	}
	entries, err := afero.ReadDir(s.fs, pkgRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, notFound(opInstall, name, fmt.Errorf("package is not in the registry"))
		}
		return Result{}, unavailable(opInstall, name, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}

	chosen, err := selectVersion(dirs, req)
	if err != nil {
		return Result{}, notFound(opInstall, name, err)
	}
	s.logger.Debug("selected version", "package", name.String(), "requirement", req.String(), "version", chosen)

	target, err := PackageDir(s.installDir, name)
	if err != nil {
		return Result{}, unavailable(opInstall, name, err)
	}
	if err := s.fs.RemoveAll(target); err != nil {
		return Result{}, unavailable(opInstall, name, err)
	}
	if err := copyTree(ctx, s.fs, filepath.Join(pkgRoot, chosen), target); err != nil {
		_ = s.fs.RemoveAll(target) // Leave no partial install behind
		return Result{}, unavailable(opInstall, name, err)
	}

	version := chosen
	if !pkgspec.IsValidVersion(chosen) {
		// A tag directory: trust the package's own metadata when present.
		if v, err := InstalledVersion(s.fs, s.installDir, name); err == nil && v != "" {
			version = v
		}
	}
	return Result{InstalledVersion: version}, nil
}

// Uninstall removes the installed copy of name.
func (s *DirectorySource) Uninstall(ctx context.Context, name pkgspec.PackageName) error {
	if err := ctx.Err(); err != nil {
		return unavailable(opUninstall, name, err)
	}
	dir, err := PackageDir(s.installDir, name)
	if err != nil {
		return unavailable(opUninstall, name, err)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return unavailable(opUninstall, name, err)
	}
	return nil
}

// IsInstalled reports whether name has a directory under the install directory.
func (s *DirectorySource) IsInstalled(ctx context.Context, name pkgspec.PackageName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable(opQuery, name, err)
	}
	ok, err := isPresent(s.fs, s.installDir, name)
	if err != nil {
		return false, unavailable(opQuery, name, err)
	}
	return ok, nil
}

// selectVersion picks the directory matching req. Unconstrained and "latest"
// select the highest release; other tags need a directory of that name.
func selectVersion(dirs []string, req pkgspec.VersionRequirement) (string, error) {
	switch req.Kind() {
	case pkgspec.KindUnconstrained:
		return highest(dirs)
	case pkgspec.KindTag:
		for _, d := range dirs {
			if d == req.String() {
				return d, nil
			}
		}
		if req == pkgspec.LatestTag {
			return highest(dirs)
		}
		return "", fmt.Errorf("no version tagged %q", req)
	case pkgspec.KindRange:
		rng, err := req.Range()
		if err != nil {
			return "", err
		}
		if v, ok := rng.MaxSatisfying(dirs); ok {
			return v, nil
		}
		return "", fmt.Errorf("no version satisfies %q", req)
	default:
		return "", &pkgspec.InvalidVersionRequirementError{Value: req}
	}
}

func highest(dirs []string) (string, error) {
	for _, v := range pkgspec.SortVersions(dirs) {
		if parsed, err := pkgspec.ParseVersion(v); err == nil && parsed.Prerelease == "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no released versions")
}

// copyTree copies the directory src to dst, checking ctx between files.
func copyTree(ctx context.Context, fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fsys.MkdirAll(target, 0o755)
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(fsys, target, data, info.Mode().Perm())
	})
}
