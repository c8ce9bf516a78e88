// SPDX-License-Identifier: MPL-2.0

// Package issue turns sapm failures into user-facing guidance.
//
// ActionableError carries the failed operation, the specifier or file
// involved and short remediation hints. The catalog in issue.go holds a
// longer markdown explanation per failure class, rendered with glamour when
// the CLI runs in verbose mode.
package issue
