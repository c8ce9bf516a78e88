// SPDX-License-Identifier: MPL-2.0

package orchestrator

import "github.com/voidvoxel/sapm/pkg/pkgspec"

const (
	// StateInstalled means the source installed the package and the manifest
	// records it.
	StateInstalled State = iota
	// StateAlreadySatisfied means the manifest already recorded the package;
	// the source was not contacted and nothing was written.
	StateAlreadySatisfied
	// StateUninstalled means the source removed the package and the manifest
	// no longer records it.
	StateUninstalled
	// StateFailed means the specifier could not be processed. Outcome.Err
	// says why.
	StateFailed
)

const (
	// StepParse turns the raw specifier into a Dependency.
	StepParse Step = iota
	// StepCheckSatisfied consults the manifest.
	StepCheckSatisfied
	// StepMaterialize calls the package source.
	StepMaterialize
	// StepRecordDependency edits and saves the manifest.
	StepRecordDependency
)

type (
	// State is the terminal state of one specifier.
	State int

	// Step is a non-terminal stage of processing a specifier.
	Step int

	// Outcome reports what happened to one specifier.
	Outcome struct {
		// Specifier is the raw input.
		Specifier string
		// Dependency is the parsed specifier; zero when parsing failed.
		Dependency pkgspec.Dependency
		// State is the terminal state.
		State State
		// Version is the version written to (or removed from) the manifest,
		// or the recorded version for StateAlreadySatisfied.
		Version string
		// Err is set only for StateFailed.
		Err error
	}
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateAlreadySatisfied:
		return "already-satisfied"
	case StateUninstalled:
		return "uninstalled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// String returns the human-readable step name.
func (s Step) String() string {
	switch s {
	case StepParse:
		return "parse"
	case StepCheckSatisfied:
		return "check-satisfied"
	case StepMaterialize:
		return "materialize"
	case StepRecordDependency:
		return "record-dependency"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome is StateFailed.
func (o Outcome) Failed() bool { return o.State == StateFailed }

// AnyFailed reports whether at least one outcome failed.
func AnyFailed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}
