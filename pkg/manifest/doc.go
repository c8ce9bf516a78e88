// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and writes the project manifest (package.json).
//
// A Manifest is the source of truth for which packages a project depends on.
// Files are validated against an embedded CUE schema on load and written
// atomically (temporary file + rename) with a stable key order:
//
//	name, version, main, dependencies, devDependencies, <other fields sorted>
//
// Fields sapm does not manage are preserved verbatim, so editing a real-world
// package.json never drops scripts, repository metadata and similar entries.
//
// All I/O goes through an afero.Fs; Load and Save are shorthands for the
// operating system filesystem.
package manifest
