// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSpecifier is the sentinel error wrapped by MalformedSpecifierError.
	ErrMalformedSpecifier = errors.New("malformed package specifier")
	// ErrInvalidVersionRequirement is the sentinel error wrapped by InvalidVersionRequirementError.
	ErrInvalidVersionRequirement = errors.New("invalid version requirement")
)

type (
	// MalformedSpecifierError is returned when a raw specifier cannot be parsed
	// into a package name or dependency.
	MalformedSpecifierError struct {
		// Specifier is the raw input that failed to parse.
		Specifier string
		// Reason describes which part of the specifier is wrong.
		Reason string
	}

	// InvalidVersionRequirementError is returned when a VersionRequirement is
	// neither a semver range nor a dist-tag.
	InvalidVersionRequirementError struct {
		Value VersionRequirement
	}
)

// Error implements the error interface.
func (e *MalformedSpecifierError) Error() string {
	return fmt.Sprintf("malformed package specifier %q: %s", e.Specifier, e.Reason)
}

// Unwrap returns ErrMalformedSpecifier for errors.Is compatibility.
func (e *MalformedSpecifierError) Unwrap() error { return ErrMalformedSpecifier }

// Error implements the error interface.
func (e *InvalidVersionRequirementError) Error() string {
	return fmt.Sprintf("invalid version requirement %q", e.Value)
}

// Unwrap returns ErrInvalidVersionRequirement for errors.Is compatibility.
func (e *InvalidVersionRequirementError) Unwrap() error { return ErrInvalidVersionRequirement }

func malformed(raw, reason string) error {
	return &MalformedSpecifierError{Specifier: raw, Reason: reason}
}
