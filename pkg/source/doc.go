// SPDX-License-Identifier: MPL-2.0

// Package source provides the package-source capability: the mechanism that
// actually places package files on disk and removes them again.
//
// Two implementations are included:
//
//   - DirectorySource installs from a local registry directory laid out as
//     <registry>/<name>/<version>/, choosing the highest version that
//     satisfies the requested range.
//   - ShellSource forwards to a system package manager (npm by default)
//     through the embedded POSIX shell interpreter from mvdan.cc/sh.
//
// Failures are classified with ErrSourceUnavailable and ErrVersionNotFound so
// callers can branch with errors.Is.
package source
