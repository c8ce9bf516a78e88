// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"slices"

	"github.com/voidvoxel/sapm/pkg/pkgspec"
)

const (
	// FileName is the canonical manifest file name.
	FileName = "package.json"

	// DefaultName is used when the project directory has no usable base name.
	DefaultName = "example"
	// DefaultVersion is the version written into a new manifest.
	DefaultVersion = "0.0.0"
	// DefaultMain is the entry point written into a new manifest.
	DefaultMain = "src/index.js"
)

type (
	// Manifest is the in-memory form of a package.json file.
	Manifest struct {
		Name            string
		Version         string
		Main            string
		Dependencies    map[string]string
		DevDependencies map[string]string

		// Extra holds every other top-level field, keyed by field name, as
		// the raw JSON it was read from.
		Extra map[string]json.RawMessage
	}

	// Entry is one recorded dependency.
	Entry struct {
		Name    string
		Version pkgspec.VersionRequirement
		Dev     bool
	}
)

// Default returns the template manifest for a project rooted at projectDir.
func Default(projectDir string) *Manifest {
	return &Manifest{
		Name:            defaultName(projectDir),
		Version:         DefaultVersion,
		Main:            DefaultMain,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
}

func defaultName(projectDir string) string {
	if projectDir == "" {
		return DefaultName
	}
	base := filepath.Base(filepath.Clean(projectDir))
	switch base {
	case ".", "..", string(filepath.Separator), "":
		return DefaultName
	}
	return base
}

// Resolve turns a project directory, or a path whose base name is
// package.json, into the absolute path of the manifest file.
func Resolve(projectPath string) (string, error) {
	if projectPath == "" {
		projectPath = "."
	}
	path := projectPath
	if filepath.Base(projectPath) != FileName {
		path = filepath.Join(projectPath, FileName)
	}
	return filepath.Abs(path)
}

// ProjectDir returns the directory that contains the manifest for
// projectPath.
func ProjectDir(projectPath string) (string, error) {
	path, err := Resolve(projectPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// AddDependency records name at version in dependencies, replacing any
// existing entry.
func (m *Manifest) AddDependency(name pkgspec.PackageName, version pkgspec.VersionRequirement) {
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	m.Dependencies[name.String()] = string(version)
}

// RemoveDependency deletes name from dependencies. It reports whether an
// entry was present; removing an absent name is a no-op.
func (m *Manifest) RemoveDependency(name pkgspec.PackageName) bool {
	key := name.String()
	if _, ok := m.Dependencies[key]; !ok {
		return false
	}
	delete(m.Dependencies, key)
	return true
}

// AddDevDependency records name at version in devDependencies.
func (m *Manifest) AddDevDependency(name pkgspec.PackageName, version pkgspec.VersionRequirement) {
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
	m.DevDependencies[name.String()] = string(version)
}

// RemoveDevDependency deletes name from devDependencies.
func (m *Manifest) RemoveDevDependency(name pkgspec.PackageName) bool {
	key := name.String()
	if _, ok := m.DevDependencies[key]; !ok {
		return false
	}
	delete(m.DevDependencies, key)
	return true
}

// Has reports whether name is recorded in either dependency map.
func (m *Manifest) Has(name pkgspec.PackageName) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Lookup returns the recorded entry for name. dependencies wins over
// devDependencies when both carry the key.
func (m *Manifest) Lookup(name pkgspec.PackageName) (Entry, bool) {
	key := name.String()
	if v, ok := m.Dependencies[key]; ok {
		return Entry{Name: key, Version: pkgspec.VersionRequirement(v)}, true
	}
	if v, ok := m.DevDependencies[key]; ok {
		return Entry{Name: key, Version: pkgspec.VersionRequirement(v), Dev: true}, true
	}
	return Entry{}, false
}

// DependencyNames returns the sorted keys of dependencies.
func (m *Manifest) DependencyNames() []string {
	return slices.Sorted(maps.Keys(m.Dependencies))
}

// Entries lists dependencies then devDependencies, each sorted by name.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, name := range slices.Sorted(maps.Keys(m.Dependencies)) {
		entries = append(entries, Entry{Name: name, Version: pkgspec.VersionRequirement(m.Dependencies[name])})
	}
	for _, name := range slices.Sorted(maps.Keys(m.DevDependencies)) {
		entries = append(entries, Entry{Name: name, Version: pkgspec.VersionRequirement(m.DevDependencies[name]), Dev: true})
	}
	return entries
}

// Clone returns a deep copy of m.
func (m *Manifest) Clone() *Manifest {
	c := *m
	c.Dependencies = maps.Clone(m.Dependencies)
	c.DevDependencies = maps.Clone(m.DevDependencies)
	if m.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(m.Extra))
		for k, v := range m.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return &c
}
