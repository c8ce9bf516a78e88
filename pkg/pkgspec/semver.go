// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type (
	// Version represents a parsed, concrete semantic version.
	Version struct {
		Major      int
		Minor      int
		Patch      int
		Prerelease string
		Original   string
	}

	// Range is a parsed npm-style version range: a union ("||") of comparator
	// sets, each of which is an intersection of comparators.
	Range struct {
		sets     [][]comparator
		original string
	}

	comparator struct {
		op string // one of =, >, >=, <, <=
		v  Version
	}

	// partial is a version with optional (wildcard or missing) components.
	partial struct {
		major, minor, patch int
		hasMajor            bool
		hasMinor            bool
		hasPatch            bool
		prerelease          string
	}
)

var (
	// versionRegex matches concrete semantic versions (all three components required).
	versionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z\-.]+))?(?:\+[0-9A-Za-z\-.]+)?$`)

	// partialRegex matches versions that may use x/X/* wildcards or omit components.
	partialRegex = regexp.MustCompile(`^v?(\d+|[xX*])(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?(?:-([0-9A-Za-z\-.]+))?(?:\+[0-9A-Za-z\-.]+)?$`)

	// operatorRegex splits a comparator token into its operator and version.
	operatorRegex = regexp.MustCompile(`^(>=|<=|>|<|=|\^|~>|~)?(.+)$`)

	// hyphenRegex matches "A - B" ranges.
	hyphenRegex = regexp.MustCompile(`^(\S+)\s+-\s+(\S+)$`)

	// operatorSpaceRegex collapses the optional whitespace between an operator and its version.
	operatorSpaceRegex = regexp.MustCompile(`(>=|<=|>|<|=|\^|~>|~)\s+`)
)

// ParseVersion parses a concrete version string such as "1.2.3" or "v2.0.0-beta.1".
func ParseVersion(s string) (*Version, error) {
	matches := versionRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return nil, fmt.Errorf("invalid version format: %s", s)
	}

	v := &Version{Original: s, Prerelease: matches[4]}
	var err error
	if v.Major, err = strconv.Atoi(matches[1]); err != nil {
		return nil, fmt.Errorf("invalid major version: %w", err)
	}
	if v.Minor, err = strconv.Atoi(matches[2]); err != nil {
		return nil, fmt.Errorf("invalid minor version: %w", err)
	}
	if v.Patch, err = strconv.Atoi(matches[3]); err != nil {
		return nil, fmt.Errorf("invalid patch version: %w", err)
	}
	return v, nil
}

// IsValidVersion checks if a string is a valid concrete semantic version.
func IsValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// String returns the version as originally written.
func (v *Version) String() string {
	if v.Original != "" {
		return v.Original
	}
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// Build metadata is ignored.
func (v *Version) Compare(other *Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, other.Prerelease)
}

func (v *Version) sameTuple(other *Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease orders pre-release labels: a release sorts above any
// pre-release, numeric identifiers compare numerically and sort below
// alphanumeric ones, and a shorter identifier list sorts first on a tie.
func comparePrerelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		switch {
		case aErr == nil && bErr == nil:
			if c := compareInt(an, bn); c != 0 {
				return c
			}
		case aErr == nil:
			return -1
		case bErr == nil:
			return 1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return compareInt(len(as), len(bs))
}

// ParseRange parses an npm-style range.
//
// Supported forms:
//
//	1.2.3  =1.2.3  >1.2.3  >=1.2.3  <2.0.0  <=1.2.3
//	^1.2.3 ~1.2.3  ~>1.2   1.x  1.2.*  *  ""
//	1.2.3 - 2.3.4
//	>=1.0.0 <2.0.0
//	^1.0.0 || ^2.0.0
func ParseRange(s string) (*Range, error) {
	r := &Range{original: s}
	for _, set := range strings.Split(s, "||") {
		comparators, err := parseComparatorSet(strings.TrimSpace(set))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		r.sets = append(r.sets, comparators)
	}
	return r, nil
}

// IsValidRange checks if a string is a valid version range.
func IsValidRange(s string) bool {
	_, err := ParseRange(s)
	return err == nil
}

// String returns the range as originally written.
func (r *Range) String() string { return r.original }

// Matches reports whether v satisfies at least one comparator set.
//
// A pre-release version only matches a set that names a pre-release on the
// same major.minor.patch tuple, so "^1.0.0" does not admit "1.1.0-beta".
func (r *Range) Matches(v *Version) bool {
	for _, set := range r.sets {
		if setMatches(set, v) {
			return true
		}
	}
	return false
}

// MaxSatisfying returns the highest version in versions that matches r.
// Strings that are not valid versions are skipped.
func (r *Range) MaxSatisfying(versions []string) (string, bool) {
	var best *Version
	for _, vs := range versions {
		v, err := ParseVersion(vs)
		if err != nil || !r.Matches(v) {
			continue
		}
		if best == nil || v.Compare(best) > 0 {
			best = v
		}
	}
	if best == nil {
		return "", false
	}
	return best.Original, true
}

// SortVersions sorts version strings in descending order (newest first),
// dropping strings that are not valid versions.
func SortVersions(versions []string) []string {
	parsed := make([]*Version, 0, len(versions))
	for _, vs := range versions {
		if v, err := ParseVersion(vs); err == nil {
			parsed = append(parsed, v)
		}
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].Compare(parsed[j]) > 0
	})

	result := make([]string, len(parsed))
	for i, v := range parsed {
		result[i] = v.Original
	}
	return result
}

func setMatches(set []comparator, v *Version) bool {
	for _, c := range set {
		if !c.matches(v) {
			return false
		}
	}
	if v.Prerelease == "" {
		return true
	}
	for _, c := range set {
		if c.v.Prerelease != "" && c.v.sameTuple(v) {
			return true
		}
	}
	return false
}

func (c comparator) matches(v *Version) bool {
	cmp := v.Compare(&c.v)
	switch c.op {
	case "=":
		return cmp == 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	default:
		return false
	}
}

func parseComparatorSet(set string) ([]comparator, error) {
	if m := hyphenRegex.FindStringSubmatch(set); m != nil {
		return parseHyphen(m[1], m[2])
	}

	set = operatorSpaceRegex.ReplaceAllString(set, "$1")
	var out []comparator
	for _, token := range strings.Fields(set) {
		cs, err := parseComparator(token)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

func parseHyphen(lowRaw, highRaw string) ([]comparator, error) {
	low, err := parsePartial(lowRaw)
	if err != nil {
		return nil, err
	}
	high, err := parsePartial(highRaw)
	if err != nil {
		return nil, err
	}

	var out []comparator
	if low.hasMajor {
		out = append(out, comparator{">=", low.floor()})
	}
	switch {
	case !high.hasMajor:
	case !high.hasMinor:
		out = append(out, comparator{"<", version(high.major+1, 0, 0)})
	case !high.hasPatch:
		out = append(out, comparator{"<", version(high.major, high.minor+1, 0)})
	default:
		out = append(out, comparator{"<=", high.floor()})
	}
	return out, nil
}

func parseComparator(token string) ([]comparator, error) {
	m := operatorRegex.FindStringSubmatch(token)
	if m == nil {
		return nil, fmt.Errorf("invalid comparator %q", token)
	}
	op := m[1]
	p, err := parsePartial(m[2])
	if err != nil {
		return nil, err
	}

	switch op {
	case "", "=":
		return p.xRange(), nil
	case "^":
		return p.caret(), nil
	case "~", "~>":
		return p.tilde(), nil
	case ">":
		return p.greater(), nil
	case ">=":
		if !p.hasMajor {
			return nil, nil
		}
		return []comparator{{">=", p.floor()}}, nil
	case "<":
		if !p.hasMajor {
			return []comparator{{"<", version(0, 0, 0)}}, nil
		}
		return []comparator{{"<", p.floor()}}, nil
	case "<=":
		return p.lessOrEqual(), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func parsePartial(s string) (partial, error) {
	m := partialRegex.FindStringSubmatch(s)
	if m == nil {
		return partial{}, fmt.Errorf("invalid version %q", s)
	}

	var p partial
	var ok bool
	var err error
	if p.major, ok, err = component(m[1]); err != nil || !ok {
		return p, err
	}
	p.hasMajor = true
	if p.minor, ok, err = component(m[2]); err != nil || !ok {
		return p, err
	}
	p.hasMinor = true
	if p.patch, ok, err = component(m[3]); err != nil || !ok {
		return p, err
	}
	p.hasPatch = true
	p.prerelease = m[4]
	return p, nil
}

// component converts a numeric version component. Wildcards and missing
// components report ok=false. Numbers too large for an int are an error.
func component(s string) (int, bool, error) {
	if s == "" || s == "x" || s == "X" || s == "*" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == math.MaxInt {
		return 0, false, fmt.Errorf("version component %q out of range", s)
	}
	return n, true, nil
}

func version(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// floor fills missing components with zero.
func (p partial) floor() Version {
	v := version(p.major, p.minor, p.patch)
	v.Prerelease = p.prerelease
	return v
}

func (p partial) xRange() []comparator {
	switch {
	case !p.hasMajor:
		return nil
	case !p.hasMinor:
		return []comparator{{">=", p.floor()}, {"<", version(p.major+1, 0, 0)}}
	case !p.hasPatch:
		return []comparator{{">=", p.floor()}, {"<", version(p.major, p.minor+1, 0)}}
	default:
		return []comparator{{"=", p.floor()}}
	}
}

// caret allows changes that do not modify the left-most non-zero component.
func (p partial) caret() []comparator {
	if !p.hasMajor {
		return nil
	}
	low := comparator{">=", p.floor()}
	switch {
	case p.major > 0 || !p.hasMinor:
		return []comparator{low, {"<", version(p.major+1, 0, 0)}}
	case p.minor > 0 || !p.hasPatch:
		return []comparator{low, {"<", version(0, p.minor+1, 0)}}
	default:
		return []comparator{low, {"<", version(0, 0, p.patch+1)}}
	}
}

// tilde allows patch-level changes when a minor version is given.
func (p partial) tilde() []comparator {
	if !p.hasMajor {
		return nil
	}
	low := comparator{">=", p.floor()}
	if !p.hasMinor {
		return []comparator{low, {"<", version(p.major+1, 0, 0)}}
	}
	return []comparator{low, {"<", version(p.major, p.minor+1, 0)}}
}

func (p partial) greater() []comparator {
	switch {
	case !p.hasMajor:
		return []comparator{{"<", version(0, 0, 0)}}
	case !p.hasMinor:
		return []comparator{{">=", version(p.major+1, 0, 0)}}
	case !p.hasPatch:
		return []comparator{{">=", version(p.major, p.minor+1, 0)}}
	default:
		return []comparator{{">", p.floor()}}
	}
}

func (p partial) lessOrEqual() []comparator {
	switch {
	case !p.hasMajor:
		return nil
	case !p.hasMinor:
		return []comparator{{"<", version(p.major+1, 0, 0)}}
	case !p.hasPatch:
		return []comparator{{"<", version(p.major, p.minor+1, 0)}}
	default:
		return []comparator{{"<=", p.floor()}}
	}
}
