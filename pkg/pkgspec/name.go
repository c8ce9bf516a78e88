// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"strconv"
	"strings"
)

// ScopeSeparator separates a package scope from the package name.
const ScopeSeparator = "/"

// PackageName is an optionally scoped package name.
//
// Scope is stored verbatim, including its leading "@" (e.g. "@voidvoxel").
// An empty Scope means the package is unscoped. Name is never empty for a
// value returned by ParseName.
type PackageName struct {
	Scope string `json:"scope,omitempty"`
	Name  string `json:"name"`
}

// ParseName parses "scope/name" or "name" into a PackageName.
// The string is split on the first "/" only; the leading "@" of the scope is
// not validated.
func ParseName(raw string) (PackageName, error) {
	scope, name, scoped := strings.Cut(raw, ScopeSeparator)
	if !scoped {
		name, scope = raw, ""
	}

	n := PackageName{Scope: scope, Name: name}
	if scoped && scope == "" {
		return PackageName{}, malformed(raw, "scope segment is empty")
	}
	if err := n.Validate(); err != nil {
		return PackageName{}, malformed(raw, err.Error())
	}
	return n, nil
}

// MustParseName is like ParseName but panics on error. Intended for
// package-level fixtures and tests.
func MustParseName(raw string) PackageName {
	n, err := ParseName(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate reports whether n can name a directory under an install root:
// the name is non-empty, and neither segment is "." or ".." or holds a path
// separator or NUL byte.
func (n PackageName) Validate() error {
	if n.Name == "" {
		return &nameError{"package name is empty"}
	}
	if err := validateSegment("name", n.Name); err != nil {
		return err
	}
	if n.Scope != "" {
		return validateSegment("scope", n.Scope)
	}
	return nil
}

func validateSegment(field, s string) error {
	switch {
	case s == "." || s == "..":
		return &nameError{field + " must not be " + strconv.Quote(s)}
	case strings.ContainsAny(s, `/\`):
		return &nameError{field + " must not contain a path separator"}
	case strings.ContainsRune(s, 0):
		return &nameError{field + " must not contain a NUL byte"}
	}
	return nil
}

// IsScoped reports whether the name carries a scope.
func (n PackageName) IsScoped() bool { return n.Scope != "" }

// WithScope returns a copy of n with its scope replaced.
func (n PackageName) WithScope(scope string) PackageName {
	n.Scope = scope
	return n
}

// WithName returns a copy of n with its unscoped name replaced.
func (n PackageName) WithName(name string) PackageName {
	n.Name = name
	return n
}

// String renders "scope/name" when scoped, otherwise "name".
// This is the key used in manifest dependency maps.
func (n PackageName) String() string {
	if n.Scope == "" {
		return n.Name
	}
	return n.Scope + ScopeSeparator + n.Name
}

type nameError struct{ msg string }

func (e *nameError) Error() string { return e.msg }
