// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// BaseDir is where the local sapm.cue is looked up; the working
		// directory when empty.
		BaseDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// fileProvider reads config.cue files and SAPM_ environment variables.
	fileProvider struct{}

	// staticProvider hands out copies of a fixed Config.
	staticProvider struct {
		cfg Config
	}
)

// NewProvider creates a configuration provider backed by config files and
// SAPM_ environment variables.
func NewProvider() Provider {
	return &fileProvider{}
}

// Static returns a Provider that ignores LoadOptions and always yields a
// copy of cfg. A nil cfg means DefaultConfig.
func Static(cfg *Config) Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &staticProvider{cfg: *cfg}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}

// Load returns a copy of the fixed configuration.
func (p *staticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := p.cfg
	return &cfg, nil
}
