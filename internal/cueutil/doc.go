// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user documents against embedded CUE schemas.
//
// Both the sapm configuration file (CUE) and package.json manifests (JSON) are
// checked the same way: compile the schema, compile the document, unify the
// document with a schema definition and validate the result. Errors carry the
// offending field path:
//
//	package.json: dependencies.moment: conflicting values 1 and string
package cueutil
