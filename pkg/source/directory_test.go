// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/voidvoxel/sapm/pkg/pkgspec"

	"github.com/spf13/afero"
)

const (
	registryDir = "/registry"
	installDir  = "/project/node_modules"
)

// newRegistry builds an in-memory registry with a package.json per version.
func newRegistry(t *testing.T, packages map[string][]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(registryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, versions := range packages {
		for _, v := range versions {
			dir := filepath.Join(registryDir, name, v)
			body := `{"name": "` + name + `", "version": "` + v + `"}`
			if err := afero.WriteFile(fs, filepath.Join(dir, "package.json"), []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := afero.WriteFile(fs, filepath.Join(dir, "lib", "index.js"), []byte("module.exports = {}\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return fs
}

func TestDirectorySource_Install(t *testing.T) {
	t.Parallel()

	packages := map[string][]string{
		"moment":                 {"2.29.4", "2.30.1", "3.0.0-beta.1", "1.0.0"},
		"@voidvoxel/position-3d": {"1.0.0", "1.2.0"},
	}

	tests := []struct {
		name        string
		pkg         string
		req         pkgspec.VersionRequirement
		wantVersion string
		wantErr     error
	}{
		{"unconstrained picks highest release", "moment", pkgspec.Unconstrained, "2.30.1", nil},
		{"latest tag picks highest release", "moment", pkgspec.LatestTag, "2.30.1", nil},
		{"exact version", "moment", "2.29.4", "2.29.4", nil},
		{"caret range", "moment", "^1.0.0", "1.0.0", nil},
		{"scoped package", "@voidvoxel/position-3d", "~1.0.0", "1.0.0", nil},
		{"unsatisfiable range", "moment", "^9.0.0", "", ErrVersionNotFound},
		{"unknown tag", "moment", "canary", "", ErrVersionNotFound},
		{"unknown package", "left-pad", pkgspec.Unconstrained, "", ErrVersionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := newRegistry(t, packages)
			src := NewDirectorySource(registryDir, installDir, WithDirectoryFs(fs))
			name := pkgspec.MustParseName(tt.pkg)

			res, err := src.Install(context.Background(), name, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Install() error = %v, want %v", err, tt.wantErr)
				}
				if ok, _ := src.IsInstalled(context.Background(), name); ok {
					t.Error("failed install must not leave the package behind")
				}
				return
			}
			if err != nil {
				t.Fatalf("Install() unexpected error: %v", err)
			}
			if res.InstalledVersion != tt.wantVersion {
				t.Errorf("InstalledVersion = %q, want %q", res.InstalledVersion, tt.wantVersion)
			}

			got, err := InstalledVersion(fs, installDir, name)
			if err != nil || got != tt.wantVersion {
				t.Errorf("InstalledVersion() on disk = (%q, %v), want %q", got, err, tt.wantVersion)
			}
			dir, err := PackageDir(installDir, name)
			if err != nil {
				t.Fatalf("PackageDir() unexpected error: %v", err)
			}
			if ok, _ := afero.Exists(fs, filepath.Join(dir, "lib", "index.js")); !ok {
				t.Error("nested files were not copied")
			}
		})
	}
}

func TestDirectorySource_TagDirectory(t *testing.T) {
	t.Parallel()

	fs := newRegistry(t, map[string][]string{"react": {"18.2.0"}})
	next := filepath.Join(registryDir, "react", "next", "package.json")
	if err := afero.WriteFile(fs, next, []byte(`{"version": "19.0.0-rc.1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewDirectorySource(registryDir, installDir, WithDirectoryFs(fs))
	res, err := src.Install(context.Background(), pkgspec.MustParseName("react"), "next")
	if err != nil {
		t.Fatalf("Install() unexpected error: %v", err)
	}
	if res.InstalledVersion != "19.0.0-rc.1" {
		t.Errorf("InstalledVersion = %q, want %q", res.InstalledVersion, "19.0.0-rc.1")
	}
}

func TestDirectorySource_Unavailable(t *testing.T) {
	t.Parallel()

	src := NewDirectorySource("/missing", installDir, WithDirectoryFs(afero.NewMemMapFs()))
	_, err := src.Install(context.Background(), pkgspec.MustParseName("moment"), pkgspec.Unconstrained)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Install() error = %v, want ErrSourceUnavailable", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := newRegistry(t, map[string][]string{"moment": {"1.0.0"}})
	src = NewDirectorySource(registryDir, installDir, WithDirectoryFs(fs))
	if _, err := src.Install(ctx, pkgspec.MustParseName("moment"), pkgspec.Unconstrained); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Install() with canceled context error = %v, want ErrSourceUnavailable", err)
	}
}

func TestDirectorySource_Uninstall(t *testing.T) {
	t.Parallel()

	fs := newRegistry(t, map[string][]string{"moment": {"2.29.4"}})
	src := NewDirectorySource(registryDir, installDir, WithDirectoryFs(fs))
	name := pkgspec.MustParseName("moment")
	ctx := context.Background()

	if _, err := src.Install(ctx, name, pkgspec.Unconstrained); err != nil {
		t.Fatal(err)
	}
	if ok, err := src.IsInstalled(ctx, name); err != nil || !ok {
		t.Fatalf("IsInstalled() = (%v, %v), want (true, nil)", ok, err)
	}
	if err := src.Uninstall(ctx, name); err != nil {
		t.Fatalf("Uninstall() unexpected error: %v", err)
	}
	if ok, _ := src.IsInstalled(ctx, name); ok {
		t.Error("package still present after Uninstall")
	}
	if err := src.Uninstall(ctx, name); err != nil {
		t.Errorf("second Uninstall() should be a no-op, got: %v", err)
	}
}

func TestPackageDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pkg     pkgspec.PackageName
		want    string
		wantErr bool
	}{
		{"unscoped", pkgspec.PackageName{Name: "moment"}, filepath.Join(installDir, "moment"), false},
		{"scoped", pkgspec.PackageName{Scope: "@voidvoxel", Name: "position-3d"}, filepath.Join(installDir, "@voidvoxel", "position-3d"), false},
		{"parent scope", pkgspec.PackageName{Scope: "..", Name: "src"}, "", true},
		{"parent name", pkgspec.PackageName{Name: ".."}, "", true},
		{"dot name", pkgspec.PackageName{Name: "."}, "", true},
		{"nested name", pkgspec.PackageName{Scope: "@a", Name: "../../etc"}, "", true},
		{"empty", pkgspec.PackageName{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PackageDir(installDir, tt.pkg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsafePackagePath) {
					t.Errorf("PackageDir(%+v) = (%q, %v), want ErrUnsafePackagePath", tt.pkg, got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("PackageDir(%+v) = (%q, %v), want %q", tt.pkg, got, err, tt.want)
			}
		})
	}
}

func TestDirectorySource_RejectsEscapingNames(t *testing.T) {
	t.Parallel()

	fs := newRegistry(t, map[string][]string{"moment": {"1.0.0"}})
	outside := "/project/src/index.js"
	if err := afero.WriteFile(fs, outside, []byte("keep me\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewDirectorySource(registryDir, installDir, WithDirectoryFs(fs))
	ctx := context.Background()
	escaping := pkgspec.PackageName{Scope: "..", Name: "src"}

	if err := src.Uninstall(ctx, escaping); !errors.Is(err, ErrUnsafePackagePath) {
		t.Errorf("Uninstall() error = %v, want ErrUnsafePackagePath", err)
	}
	if _, err := src.Install(ctx, escaping, pkgspec.Unconstrained); !errors.Is(err, ErrUnsafePackagePath) {
		t.Errorf("Install() error = %v, want ErrUnsafePackagePath", err)
	}
	if _, err := src.IsInstalled(ctx, escaping); !errors.Is(err, ErrUnsafePackagePath) {
		t.Errorf("IsInstalled() error = %v, want ErrUnsafePackagePath", err)
	}
	if ok, _ := afero.Exists(fs, outside); !ok {
		t.Errorf("%s outside the install directory was removed", outside)
	}
}
