// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"errors"
	"strings"
)

// VersionSeparator separates a package name from its version requirement.
const VersionSeparator = "@"

type (
	// Dependency pairs a package name with a version requirement.
	// Version is never empty: an omitted version is represented by Unconstrained.
	Dependency struct {
		Name    PackageName
		Version VersionRequirement
	}

	// DependencyJSON is the {name, version} projection of a Dependency.
	DependencyJSON struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
)

// NewDependency creates a Dependency. An empty version becomes Unconstrained.
func NewDependency(name PackageName, version VersionRequirement) Dependency {
	if version == "" {
		version = Unconstrained
	}
	return Dependency{Name: name, Version: version}
}

// ParseDependency parses "name", "name@version", "@scope/name" or
// "@scope/name@version".
//
// A leading "@" belongs to the scope, so for scoped input only the remainder
// after the first character is split on "@" to find the version.
func ParseDependency(raw string) (Dependency, error) {
	namePart, version, hasVersion := splitVersion(raw)

	name, err := ParseName(namePart)
	if err != nil {
		return Dependency{}, malformed(raw, "invalid package name: "+reasonOf(err))
	}

	if !hasVersion {
		return Dependency{Name: name, Version: Unconstrained}, nil
	}
	if version == "" {
		return Dependency{}, malformed(raw, "version after "+VersionSeparator+" is empty")
	}

	req := VersionRequirement(version)
	if err := req.Validate(); err != nil {
		return Dependency{}, malformed(raw, err.Error())
	}
	return Dependency{Name: name, Version: req}, nil
}

// MustParseDependency is like ParseDependency but panics on error.
func MustParseDependency(raw string) Dependency {
	d, err := ParseDependency(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// splitVersion separates the name segment from the version segment.
func splitVersion(raw string) (name, version string, ok bool) {
	if strings.HasPrefix(raw, VersionSeparator) {
		name, version, ok = strings.Cut(raw[1:], VersionSeparator)
		return VersionSeparator + name, version, ok
	}
	return strings.Cut(raw, VersionSeparator)
}

func reasonOf(err error) string {
	var m *MalformedSpecifierError
	if errors.As(err, &m) {
		return m.Reason
	}
	return err.Error()
}

// IsUnconstrained reports whether no version was requested.
func (d Dependency) IsUnconstrained() bool { return d.Version.IsUnconstrained() }

// String renders "name@version", or just "name" for an unconstrained dependency.
func (d Dependency) String() string {
	if d.Version.IsUnconstrained() || d.Version == "" {
		return d.Name.String()
	}
	return d.Name.String() + VersionSeparator + string(d.Version)
}

// JSON returns the {name, version} projection stored by manifests.
func (d Dependency) JSON() DependencyJSON {
	return DependencyJSON{Name: d.Name.String(), Version: string(d.Version)}
}
