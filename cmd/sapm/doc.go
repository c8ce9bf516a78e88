// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sapm.
//
// Handlers receive an App, which carries the configuration provider, the
// package source factory and the output streams. Business logic lives in
// pkg/orchestrator; this package parses flags, builds the orchestrator for
// the selected project and renders outcomes.
package cmd
