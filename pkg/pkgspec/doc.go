// SPDX-License-Identifier: MPL-2.0

// Package pkgspec parses package specifiers.
//
// A specifier identifies a package and optionally a version requirement:
//
//	moment
//	moment@2.29.4
//	@voidvoxel/position-3d
//	@voidvoxel/position-3d@^1.0.0
//
// # Types
//
//   - [PackageName]: an optionally scoped package name ("scope/name")
//   - [Dependency]: a package name paired with a [VersionRequirement]
//   - [VersionRequirement]: an exact version, an npm-style range, a dist-tag,
//     or the [Unconstrained] sentinel
//
// Parse failures wrap [ErrMalformedSpecifier] so callers can use errors.Is.
package pkgspec
