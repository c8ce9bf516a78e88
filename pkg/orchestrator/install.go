// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"

	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
	"github.com/voidvoxel/sapm/pkg/source"
)

// Install processes each specifier in order and returns one Outcome per
// specifier. Per-specifier failures are reported in the outcomes, never as
// an aborted batch.
func (o *Orchestrator) Install(ctx context.Context, specs ...string) []Outcome {
	outcomes := make([]Outcome, 0, len(specs))
	for _, raw := range specs {
		outcomes = append(outcomes, o.finish(o.install(ctx, raw)))
	}
	return outcomes
}

func (o *Orchestrator) install(ctx context.Context, raw string) Outcome {
	out := Outcome{Specifier: raw}

	o.step(raw, StepParse)
	dep, err := pkgspec.ParseDependency(raw)
	if err != nil {
		return failed(out, err)
	}
	out.Dependency = dep

	o.step(raw, StepCheckSatisfied)
	entry, found := o.manifest.Lookup(dep.Name)
	if found && o.satisfied(entry, dep.Version) {
		out.State = StateAlreadySatisfied
		out.Version = string(entry.Version)
		return out
	}

	o.step(raw, StepMaterialize)
	var res source.Result
	err = o.call(ctx, func(ctx context.Context) error {
		var installErr error
		res, installErr = o.src.Install(ctx, dep.Name, dep.Version)
		return installErr
	})
	if err != nil {
		return failed(out, err)
	}

	o.step(raw, StepRecordDependency)
	version := recordedVersion(dep.Version, res.InstalledVersion)
	// An existing devDependency stays one; --save-dev moves a dependency.
	dev := o.saveDev || (found && entry.Dev)
	if err := o.commit(func(m *manifest.Manifest) {
		if dev {
			m.RemoveDependency(dep.Name)
			m.AddDevDependency(dep.Name, version)
		} else {
			m.AddDependency(dep.Name, version)
		}
	}); err != nil {
		return failed(out, err)
	}

	out.State = StateInstalled
	out.Version = string(version)
	return out
}

// recordedVersion picks what goes into the manifest: the version the source
// reports, else the requested requirement. The Unconstrained sentinel is
// never written; "*" stands in for it.
func recordedVersion(req pkgspec.VersionRequirement, installed string) pkgspec.VersionRequirement {
	switch {
	case installed != "":
		return pkgspec.VersionRequirement(installed)
	case req.IsUnconstrained():
		return pkgspec.AnyVersion
	default:
		return req
	}
}
