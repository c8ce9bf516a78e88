// SPDX-License-Identifier: MPL-2.0

package config

import "os"

// ConfigDirEnv relocates the configuration directory, e.g. for a portable
// install. SetConfigDirOverride takes precedence over it.
const ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"

// configDirOverride pins ConfigDir in tests, where os.UserHomeDir does not
// reliably follow HOME on every platform.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the override set by SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}

// overriddenConfigDir reports a config directory chosen explicitly rather
// than derived from platform conventions.
func overriddenConfigDir() (string, bool) {
	if configDirOverride != "" {
		return configDirOverride, true
	}
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, true
	}
	return "", false
}
