// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"

	"github.com/voidvoxel/sapm/pkg/pkgspec"
)

// Restore installs every recorded dependency the source does not report as
// present, using the recorded requirement. The manifest is not rewritten:
// it already describes the desired state.
func (o *Orchestrator) Restore(ctx context.Context) []Outcome {
	entries := o.manifest.Entries()
	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		raw := entry.Name + pkgspec.VersionSeparator + string(entry.Version)
		outcomes = append(outcomes, o.finish(o.restore(ctx, raw)))
	}
	return outcomes
}

func (o *Orchestrator) restore(ctx context.Context, raw string) Outcome {
	out := Outcome{Specifier: raw}

	o.step(raw, StepParse)
	dep, err := pkgspec.ParseDependency(raw)
	if err != nil {
		return failed(out, err)
	}
	out.Dependency = dep

	o.step(raw, StepCheckSatisfied)
	var present bool
	if err := o.call(ctx, func(ctx context.Context) error {
		var queryErr error
		present, queryErr = o.src.IsInstalled(ctx, dep.Name)
		return queryErr
	}); err != nil {
		return failed(out, err)
	}
	if present {
		out.State = StateAlreadySatisfied
		out.Version = string(dep.Version)
		return out
	}

	o.step(raw, StepMaterialize)
	if err := o.call(ctx, func(ctx context.Context) error {
		res, installErr := o.src.Install(ctx, dep.Name, dep.Version)
		out.Version = recordedVersion(dep.Version, res.InstalledVersion).String()
		return installErr
	}); err != nil {
		out.Version = ""
		return failed(out, err)
	}

	out.State = StateInstalled
	return out
}
