// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/voidvoxel/sapm/internal/cueutil"

	"github.com/spf13/afero"
)

const (
	keyName            = "name"
	keyVersion         = "version"
	keyMain            = "main"
	keyDependencies    = "dependencies"
	keyDevDependencies = "devDependencies"

	indent = "  "
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// canonicalKeys is the order in which managed fields are written.
var canonicalKeys = []string{keyName, keyVersion, keyMain, keyDependencies, keyDevDependencies}

// Load reads the manifest for projectPath from the operating system filesystem.
func Load(projectPath string) (*Manifest, error) {
	return LoadFs(afero.NewOsFs(), projectPath)
}

// LoadFs reads and validates the manifest for projectPath.
// A missing file yields an error wrapping ErrManifestNotFound.
func LoadFs(fsys afero.Fs, projectPath string) (*Manifest, error) {
	path, err := Resolve(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data, path)
}

// LoadOrDefault reads the manifest for projectPath, or returns the default
// template when the file does not exist. created reports the latter; the
// template is not written.
func LoadOrDefault(fsys afero.Fs, projectPath string) (m *Manifest, created bool, err error) {
	m, err = LoadFs(fsys, projectPath)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, ErrManifestNotFound) {
		return nil, false, err
	}

	dir, err := ProjectDir(projectPath)
	if err != nil {
		return nil, false, err
	}
	return Default(dir), true, nil
}

// Parse decodes package.json bytes. filename is only used in error messages.
func Parse(data []byte, filename string) (*Manifest, error) {
	if _, err := cueutil.Validate(manifestSchema, "#Manifest", data,
		cueutil.WithEncoding(cueutil.EncodingJSON),
		cueutil.WithFilename(filename),
	); err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}

	m := &Manifest{}
	targets := map[string]any{
		keyName:            &m.Name,
		keyVersion:         &m.Version,
		keyMain:            &m.Main,
		keyDependencies:    &m.Dependencies,
		keyDevDependencies: &m.DevDependencies,
	}
	for key, raw := range fields {
		target, managed := targets[key]
		if !managed {
			if m.Extra == nil {
				m.Extra = map[string]json.RawMessage{}
			}
			m.Extra[key] = raw
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, &ParseError{Path: filename, Err: fmt.Errorf("%s: %w", key, err)}
		}
	}

	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
	return m, nil
}

// Marshal renders m as package.json text: canonical fields first, then the
// preserved extras sorted by key, two-space indented, newline terminated.
// Empty name, version and main are omitted; both dependency maps are always
// written.
func (m *Manifest) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')

	first := true
	writeField := func(key string, raw []byte) error {
		if !first {
			compact.WriteByte(',')
		}
		first = false
		k, err := marshalCompact(key)
		if err != nil {
			return err
		}
		compact.Write(k)
		compact.WriteByte(':')
		return json.Compact(&compact, raw)
	}

	for _, key := range canonicalKeys {
		value, include := m.canonicalValue(key)
		if !include {
			continue
		}
		raw, err := marshalCompact(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if err := writeField(key, raw); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(m.Extra)) {
		if slices.Contains(canonicalKeys, key) {
			continue
		}
		if err := writeField(key, m.Extra[key]); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent manifest: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (m *Manifest) canonicalValue(key string) (any, bool) {
	switch key {
	case keyName:
		return m.Name, m.Name != ""
	case keyVersion:
		return m.Version, m.Version != ""
	case keyMain:
		return m.Main, m.Main != ""
	case keyDependencies:
		return nonNil(m.Dependencies), true
	case keyDevDependencies:
		return nonNil(m.DevDependencies), true
	}
	return nil, false
}

func nonNil(deps map[string]string) map[string]string {
	if deps == nil {
		return map[string]string{}
	}
	return deps
}

// marshalCompact encodes v without HTML escaping, so ranges such as ">=1.0.0"
// are written as typed.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Save writes m to the operating system filesystem.
func (m *Manifest) Save(projectPath string) error {
	return m.SaveFs(afero.NewOsFs(), projectPath)
}

// SaveFs writes m for projectPath. The previous file stays intact if any
// step fails.
func (m *Manifest) SaveFs(fsys afero.Fs, projectPath string) error {
	path, err := Resolve(projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	data, err := m.Marshal()
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return atomicWriteFile(fsys, path, data)
}

func atomicWriteFile(fsys afero.Fs, path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := afero.WriteFile(fsys, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
