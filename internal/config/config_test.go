// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voidvoxel/sapm/internal/issue"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
)

// isolated returns options that never see the real user config.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{ConfigDirPath: t.TempDir(), BaseDir: t.TempDir()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Source.Kind != SourceShell {
		t.Errorf("default source kind = %q, want shell", cfg.Source.Kind)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("default color scheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.StrictVersions || cfg.UI.Verbose || cfg.InstallDir != "" {
		t.Errorf("unexpected non-zero defaults: %+v", cfg)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("config dir", func(t *testing.T) {
		t.Parallel()

		opts := isolated(t)
		path := filepath.Join(opts.ConfigDirPath, ConfigFileName+"."+ConfigFileExt)
		writeFile(t, path, `strict_versions: true
source: kind: "directory"
source: registry_dir: "/srv/registry"
`)
		cfg, err := NewProvider().Load(context.Background(), opts)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Path != path || !cfg.StrictVersions || cfg.Source.Kind != SourceDirectory || cfg.Source.RegistryDir != "/srv/registry" {
			t.Errorf("Load() = %+v", cfg)
		}
		if cfg.UI.ColorScheme != ColorSchemeAuto {
			t.Errorf("unset keys should keep defaults, got color scheme %q", cfg.UI.ColorScheme)
		}
	})

	t.Run("local file", func(t *testing.T) {
		t.Parallel()

		opts := isolated(t)
		path := filepath.Join(opts.BaseDir, LocalConfigFile)
		writeFile(t, path, `timeout: "30s"
ui: color_scheme: "dark"
`)
		cfg, err := NewProvider().Load(context.Background(), opts)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Path != path || cfg.Timeout != 30*time.Second || cfg.UI.ColorScheme != ColorSchemeDark {
			t.Errorf("Load() = %+v", cfg)
		}
	})

	t.Run("explicit file wins", func(t *testing.T) {
		t.Parallel()

		opts := isolated(t)
		writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName+"."+ConfigFileExt), `timeout: "1m"`)
		explicit := filepath.Join(t.TempDir(), "custom.cue")
		writeFile(t, explicit, `timeout: "2m"`)
		opts.ConfigFilePath = explicit

		cfg, err := NewProvider().Load(context.Background(), opts)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %s, want 2m", cfg.Timeout)
		}
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantIs  error
	}{
		{"syntax error", `timeout: "1m`, nil},
		{"unknown key", `registry: "x"`, nil},
		{"bad source kind", `source: kind: "ftp"`, nil},
		{"bad duration", `timeout: "soon"`, nil},
		{"bad color scheme", `ui: color_scheme: "neon"`, nil},
		{"directory without registry", `source: kind: "directory"`, ErrInvalidSourceConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			opts.ConfigFilePath = filepath.Join(opts.BaseDir, "config.cue")
			writeFile(t, opts.ConfigFilePath, tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error should be *issue.ActionableError, got %T: %v", err, err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantIs)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		opts := isolated(t)
		opts.ConfigFilePath = filepath.Join(opts.BaseDir, "nope.cue")
		_, err := NewProvider().Load(context.Background(), opts)
		var ae *issue.ActionableError
		if !errors.As(err, &ae) || !strings.Contains(err.Error(), "config file not found") {
			t.Errorf("Load() error = %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewProvider().Load(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want context.Canceled", err)
		}
	})
}

// Not parallel: t.Setenv.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SAPM_SOURCE_KIND", "directory")
	t.Setenv("SAPM_SOURCE_REGISTRY_DIR", "/env/registry")
	t.Setenv("SAPM_TIMEOUT", "45s")
	t.Setenv("SAPM_STRICT_VERSIONS", "true")

	opts := isolated(t)
	writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), `source: kind: "shell"`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Source.Kind != SourceDirectory || cfg.Source.RegistryDir != "/env/registry" {
		t.Errorf("environment should override the file, got source %+v", cfg.Source)
	}
	if cfg.Timeout != 45*time.Second || !cfg.StrictVersions {
		t.Errorf("Timeout = %s, StrictVersions = %v", cfg.Timeout, cfg.StrictVersions)
	}
}

func TestGenerateCUE_LoadsBack(t *testing.T) {
	t.Parallel()

	want := &Config{
		InstallDir:     "vendor/js",
		Timeout:        90 * time.Second,
		StrictVersions: true,
		Source: SourceConfig{
			Kind:             SourceShell,
			InstallCommand:   `pnpm add "$SAPM_SPEC"`,
			UninstallCommand: `pnpm remove "$SAPM_NAME"`,
		},
		UI: UIConfig{ColorScheme: ColorSchemeLight, Verbose: true},
	}

	path := filepath.Join(t.TempDir(), "config.cue")
	if err := Save(want, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	opts := isolated(t)
	opts.ConfigFilePath = path
	got, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v\n%s", err, GenerateCUE(want))
	}
	want.Path = path
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Source.Kind = SourceDirectory
	cfg.Source.RegistryDir = "/srv/registry"
	want := newDocument(cfg)

	t.Run("toml", func(t *testing.T) {
		t.Parallel()

		data, err := Render(cfg, FormatTOML)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		var got document
		if err := toml.Unmarshal(data, &got); err != nil {
			t.Fatalf("rendered TOML does not parse: %v\n%s", err, data)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("TOML mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(string(data), "[source]") {
			t.Errorf("expected a [source] table:\n%s", data)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := Render(cfg, FormatJSON)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		var got document
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("rendered JSON does not parse: %v\n%s", err, data)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("JSON mismatch (-want +got):\n%s", diff)
		}
		if got.Timeout != "5m0s" {
			t.Errorf("timeout = %q, want 5m0s", got.Timeout)
		}
	})

	t.Run("cue", func(t *testing.T) {
		t.Parallel()

		data, err := Render(cfg, FormatCUE)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `registry_dir: "/srv/registry"`) {
			t.Errorf("CUE output missing registry_dir:\n%s", data)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		if _, err := Render(cfg, "yaml"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Render() error = %v, want ErrUnknownFormat", err)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")

	got, written, err := WriteDefault(path, false)
	if err != nil || !written || got != path {
		t.Fatalf("WriteDefault() = (%q, %v, %v)", got, written, err)
	}

	writeFile(t, path, `strict_versions: true`)
	if _, written, err := WriteDefault(path, false); err != nil || written {
		t.Errorf("WriteDefault() without force = (written=%v, err=%v), want existing file kept", written, err)
	}
	if _, written, err := WriteDefault(path, true); err != nil || !written {
		t.Errorf("WriteDefault() with force = (written=%v, err=%v)", written, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "strict_versions: false") {
		t.Errorf("forced write should restore defaults:\n%s", data)
	}
}

// Not parallel: mutates the package-level override.
func TestConfigDir_Override(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv(ConfigDirEnv, "")

	dir := t.TempDir()
	SetConfigDirOverride(dir)
	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = (%q, %v), want %q", got, err, dir)
	}
	path, err := DefaultConfigPath()
	if err != nil || path != filepath.Join(dir, "config.cue") {
		t.Errorf("DefaultConfigPath() = (%q, %v)", path, err)
	}

	Reset()
	got, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() unexpected error: %v", err)
	}
	if filepath.Base(got) != AppName {
		t.Errorf("ConfigDir() = %q, want a %s directory", got, AppName)
	}
}

// Not parallel: uses t.Setenv.
func TestConfigDir_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = (%q, %v), want %q", got, err, dir)
	}

	override := t.TempDir()
	SetConfigDirOverride(override)
	t.Cleanup(Reset)
	if got, _ := ConfigDir(); got != override {
		t.Errorf("ConfigDir() = %q, want the override %q to win over %s", got, override, ConfigDirEnv)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Timeout = -time.Second
	cfg.Source.Kind = "ftp"
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = (%v, %v)", valid, errs)
	}
	err := errs[0]
	for _, target := range []error{ErrInvalidConfig, ErrInvalidSourceConfig, ErrInvalidSourceKind, ErrInvalidColorScheme} {
		if !errors.Is(err, target) {
			t.Errorf("error %v should wrap %v", err, target)
		}
	}
	if ColorSchemeDark.GlamourStyle() != "dark" || ColorSchemeAuto.GlamourStyle() != "auto" {
		t.Error("unexpected GlamourStyle()")
	}
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Source.Kind = SourceDirectory
	p := Static(cfg)

	got, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: "ignored.cue"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	got.Source.Kind = SourceShell
	again, _ := p.Load(context.Background(), LoadOptions{})
	if again.Source.Kind != SourceDirectory {
		t.Errorf("Load() returned shared state: kind = %q", again.Source.Kind)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with canceled context error = %v, want context.Canceled", err)
	}

	if def, err := Static(nil).Load(context.Background(), LoadOptions{}); err != nil || def.Timeout != DefaultTimeout {
		t.Errorf("Static(nil).Load() = (%+v, %v), want defaults", def, err)
	}
}

func TestValidation_InstallDirForDefaultNpm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{"default install dir", func(*Config) {}, true},
		{"nested node_modules", func(c *Config) { c.InstallDir = "vendor/node_modules" }, true},
		{"not node_modules", func(c *Config) { c.InstallDir = "lib" }, false},
		{"custom install command", func(c *Config) {
			c.InstallDir = "lib"
			c.Source.InstallCommand = `pnpm add --dir "$SAPM_INSTALL_DIR" "$SAPM_SPEC"`
		}, true},
		{"directory source", func(c *Config) {
			c.InstallDir = "lib"
			c.Source.Kind = SourceDirectory
			c.Source.RegistryDir = "registry"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if valid != tt.wantValid {
				t.Fatalf("IsValid() = %v (%v), want %v", valid, errs, tt.wantValid)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("IsValid() error = %v, want ErrInvalidConfig", errs[0])
			}
		})
	}
}
