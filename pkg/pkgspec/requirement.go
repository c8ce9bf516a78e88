// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"regexp"
	"strings"
)

const (
	// Unconstrained is the placeholder requirement used when a specifier names
	// no version. It is a sentinel, never a real installed version.
	Unconstrained VersionRequirement = "0.0.0"

	// LatestTag is the dist-tag that selects the highest published version.
	LatestTag VersionRequirement = "latest"

	// AnyVersion is the range recorded in a manifest when neither the caller
	// nor the package source named a concrete version.
	AnyVersion VersionRequirement = "*"
)

const (
	// KindUnconstrained marks the Unconstrained sentinel.
	KindUnconstrained RequirementKind = iota
	// KindRange marks an exact version or a semver range.
	KindRange
	// KindTag marks a dist-tag such as "latest" or "next".
	KindTag
	// KindInvalid marks a requirement that is neither a range nor a tag.
	KindInvalid
)

type (
	// VersionRequirement is a version constraint string: an exact version
	// ("1.2.3"), an npm-style range ("^1.2.0", ">=1 <2", "1.x"), a dist-tag
	// ("latest") or the Unconstrained sentinel.
	VersionRequirement string

	// RequirementKind classifies a VersionRequirement.
	RequirementKind int
)

// tagRegex matches npm dist-tag names. Checked after range parsing so that
// wildcards like "x" stay ranges.
var tagRegex = regexp.MustCompile(`^[A-Za-z][0-9A-Za-z._-]*$`)

// String returns the human-readable kind name.
func (k RequirementKind) String() string {
	switch k {
	case KindUnconstrained:
		return "unconstrained"
	case KindRange:
		return "range"
	case KindTag:
		return "tag"
	default:
		return "invalid"
	}
}

// Kind classifies the requirement.
func (r VersionRequirement) Kind() RequirementKind {
	s := strings.TrimSpace(string(r))
	switch {
	case r == Unconstrained:
		return KindUnconstrained
	case s == "":
		return KindInvalid
	case IsValidRange(s):
		return KindRange
	case tagRegex.MatchString(s):
		return KindTag
	default:
		return KindInvalid
	}
}

// Validate returns nil if the requirement is the Unconstrained sentinel, a
// valid range or a valid tag.
func (r VersionRequirement) Validate() error {
	if r.Kind() == KindInvalid {
		return &InvalidVersionRequirementError{Value: r}
	}
	return nil
}

// IsUnconstrained reports whether r is the Unconstrained sentinel.
func (r VersionRequirement) IsUnconstrained() bool { return r == Unconstrained }

// Range parses r as a version range. Tags and the sentinel are not ranges.
func (r VersionRequirement) Range() (*Range, error) {
	if r.Kind() != KindRange {
		return nil, &InvalidVersionRequirementError{Value: r}
	}
	return ParseRange(strings.TrimSpace(string(r)))
}

// Satisfies reports whether the concrete version satisfies r.
//
// The sentinel and tags accept any version: a tag cannot be checked without
// asking the registry what it currently points at. When version is itself not
// a concrete version (e.g. a range recorded in a manifest) the two strings
// must be equal.
func (r VersionRequirement) Satisfies(version string) bool {
	switch r.Kind() {
	case KindUnconstrained, KindTag:
		return true
	case KindRange:
		v, err := ParseVersion(version)
		if err != nil {
			return strings.TrimSpace(string(r)) == strings.TrimSpace(version)
		}
		rng, err := r.Range()
		if err != nil {
			return false
		}
		return rng.Matches(v)
	default:
		return false
	}
}

// String returns the requirement as written.
func (r VersionRequirement) String() string { return string(r) }
