// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/voidvoxel/sapm/pkg/pkgspec"
)

var (
	// ErrSourceUnavailable means the source could not be reached or failed
	// for a reason other than a missing version (network, permissions,
	// missing tooling, timeout).
	ErrSourceUnavailable = errors.New("package source unavailable")

	// ErrVersionNotFound means the source answered but has no version of
	// the package matching the requirement.
	ErrVersionNotFound = errors.New("no matching version")
)

type (
	// Source installs and removes packages.
	Source interface {
		// Install materialises name at a version satisfying req.
		Install(ctx context.Context, name pkgspec.PackageName, req pkgspec.VersionRequirement) (Result, error)
		// Uninstall removes name. Removing a package that is not present is
		// not an error.
		Uninstall(ctx context.Context, name pkgspec.PackageName) error
		// IsInstalled reports whether name is currently present.
		IsInstalled(ctx context.Context, name pkgspec.PackageName) (bool, error)
	}

	// Result describes a successful install.
	Result struct {
		// InstalledVersion is the concrete version placed on disk, or empty
		// when the source cannot tell.
		InstalledVersion string
	}

	// Error is returned by the bundled sources. Kind is ErrSourceUnavailable
	// or ErrVersionNotFound.
	Error struct {
		Op   string
		Name pkgspec.PackageName
		Kind error
		Err  error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the classification sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unavailable(op string, name pkgspec.PackageName, err error) error {
	return &Error{Op: op, Name: name, Kind: ErrSourceUnavailable, Err: err}
}

func notFound(op string, name pkgspec.PackageName, err error) error {
	return &Error{Op: op, Name: name, Kind: ErrVersionNotFound, Err: err}
}
