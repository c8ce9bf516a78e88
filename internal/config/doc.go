// SPDX-License-Identifier: MPL-2.0

// Package config handles sapm configuration using Viper with CUE as the file format.
//
// The configuration is read from the file given with --config, else from
// <config dir>/sapm/config.cue (XDG on Linux, ~/Library/Application Support on
// macOS, %APPDATA% on Windows), else from ./sapm.cue. Every key can be
// overridden with a SAPM_ environment variable, dots replaced by underscores
// (SAPM_SOURCE_KIND=directory). Files are validated against the embedded
// config_schema.cue before they are merged.
package config
