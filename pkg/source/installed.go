// SPDX-License-Identifier: MPL-2.0

package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/pkgspec"

	"github.com/spf13/afero"
)

// ErrUnsafePackagePath is returned by PackageDir when a name would resolve
// outside its root directory.
var ErrUnsafePackagePath = errors.New("package path escapes its root directory")

// PackageDir returns the directory name is installed into, e.g.
// node_modules/@scope/name. The result is always strictly below root.
func PackageDir(root string, name pkgspec.PackageName) (string, error) {
	if err := name.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnsafePackagePath, name.String(), err)
	}

	dir := filepath.Join(root, name.Name)
	if name.IsScoped() {
		dir = filepath.Join(root, name.Scope, name.Name)
	}

	rel, err := filepath.Rel(filepath.Clean(root), dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePackagePath, name.String())
	}
	return dir, nil
}

// InstalledVersion reads the version recorded in the package.json of an
// installed package. It returns "" without error when the package (or its
// version field) is absent.
func InstalledVersion(fsys afero.Fs, installDir string, name pkgspec.PackageName) (string, error) {
	dir, err := PackageDir(installDir, name)
	if err != nil {
		return "", err
	}
	m, err := manifest.LoadFs(fsys, dir)
	if err != nil {
		if errors.Is(err, manifest.ErrManifestNotFound) {
			return "", nil
		}
		return "", err
	}
	return m.Version, nil
}

// isPresent reports whether a package directory exists under installDir.
func isPresent(fsys afero.Fs, installDir string, name pkgspec.PackageName) (bool, error) {
	dir, err := PackageDir(installDir, name)
	if err != nil {
		return false, err
	}
	return afero.DirExists(fsys, dir)
}
