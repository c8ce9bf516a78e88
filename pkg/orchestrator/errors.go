// SPDX-License-Identifier: MPL-2.0

package orchestrator

import "errors"

var (
	// ErrNotInstalled is reported when uninstalling a package the manifest
	// does not record.
	ErrNotInstalled = errors.New("package is not installed")

	// ErrManifestWriteFailed is reported when the source succeeded but the
	// manifest could not be persisted.
	ErrManifestWriteFailed = errors.New("failed to write manifest")
)
