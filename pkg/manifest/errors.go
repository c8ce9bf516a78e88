// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound is returned by Load when no package.json exists at
	// the resolved path.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrInvalidManifest is wrapped by ParseError.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// ParseError reports a package.json that is not valid JSON or does not match
// the manifest schema. Err already names the file.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid manifest: %v", e.Err)
}

// Unwrap exposes both ErrInvalidManifest and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrInvalidManifest, e.Err} }
