// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"

	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
)

// Uninstall removes each specifier's package and its manifest entry. A
// version in the specifier is ignored; the name selects the entry.
func (o *Orchestrator) Uninstall(ctx context.Context, specs ...string) []Outcome {
	outcomes := make([]Outcome, 0, len(specs))
	for _, raw := range specs {
		outcomes = append(outcomes, o.finish(o.uninstall(ctx, raw)))
	}
	return outcomes
}

// UninstallAll removes every recorded dependency and devDependency, in
// Entries order. An empty manifest yields no outcomes.
func (o *Orchestrator) UninstallAll(ctx context.Context) []Outcome {
	entries := o.manifest.Entries()
	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		outcomes = append(outcomes, o.finish(o.uninstall(ctx, entry.Name)))
	}
	return outcomes
}

func (o *Orchestrator) uninstall(ctx context.Context, raw string) Outcome {
	out := Outcome{Specifier: raw}

	o.step(raw, StepParse)
	dep, err := pkgspec.ParseDependency(raw)
	if err != nil {
		return failed(out, err)
	}
	out.Dependency = dep

	o.step(raw, StepCheckSatisfied)
	entry, ok := o.manifest.Lookup(dep.Name)
	if !ok {
		return failed(out, ErrNotInstalled)
	}

	o.step(raw, StepMaterialize)
	if err := o.call(ctx, func(ctx context.Context) error {
		return o.src.Uninstall(ctx, dep.Name)
	}); err != nil {
		return failed(out, err)
	}

	o.step(raw, StepRecordDependency)
	if err := o.commit(func(m *manifest.Manifest) {
		if entry.Dev {
			m.RemoveDevDependency(dep.Name)
		} else {
			m.RemoveDependency(dep.Name)
		}
	}); err != nil {
		return failed(out, err)
	}

	out.State = StateUninstalled
	out.Version = string(entry.Version)
	return out
}
