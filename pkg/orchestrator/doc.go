// SPDX-License-Identifier: MPL-2.0

// Package orchestrator installs and uninstalls packages while keeping the
// project manifest consistent with what the package source actually did.
//
// Every specifier passed to Install walks the same steps:
//
//	Parse -> CheckSatisfied -> Materialize -> RecordDependency
//
// and ends in exactly one terminal State. A failure in one specifier is
// reported in its Outcome and never aborts the rest of the batch. The
// manifest is only written after the source has succeeded, and a failed
// write leaves both the file and the in-memory manifest at their previous
// contents.
//
// An Orchestrator is not safe for concurrent use.
package orchestrator
