// SPDX-License-Identifier: MPL-2.0

package pkgspec

import (
	"slices"
	"testing"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"v2.0.0", Version{Major: 2}, false},
		{"1.0.0-beta.1", Version{Major: 1, Prerelease: "beta.1"}, false},
		{"1.0.0+build.5", Version{Major: 1}, false},
		{"1.2", Version{}, true},
		{"1.x.0", Version{}, true},
		{"latest", Version{}, true},
		{"", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseVersion(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got.Major != tt.want.Major || got.Minor != tt.want.Minor || got.Patch != tt.want.Patch || got.Prerelease != tt.want.Prerelease {
				t.Errorf("ParseVersion(%q) = %d.%d.%d-%s, want %d.%d.%d-%s", tt.input,
					got.Major, got.Minor, got.Patch, got.Prerelease,
					tt.want.Major, tt.want.Minor, tt.want.Patch, tt.want.Prerelease)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want original %q", got.String(), tt.input)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"1.10.0", "1.9.0", 1},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha.beta", -1},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-rc.1", "1.0.0-beta.11", 1},
		{"1.0.0+build.1", "1.0.0+build.2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			t.Parallel()

			a, err := ParseVersion(tt.a)
			if err != nil {
				t.Fatal(err)
			}
			b, err := ParseVersion(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := b.Compare(a); got != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestRange_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rng     string
		version string
		want    bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
		{"=1.2.3", "1.2.3", true},
		{"*", "9.9.9", true},
		{"", "0.0.1", true},
		{"1.x", "1.9.0", true},
		{"1.x", "2.0.0", false},
		{"1.2.*", "1.2.9", true},
		{"1.2.*", "1.3.0", false},
		{"1", "1.4.0", true},
		{"^1.2.3", "1.9.9", true},
		{"^1.2.3", "1.2.2", false},
		{"^1.2.3", "2.0.0", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"~>1.2", "1.2.5", true},
		{"~1", "1.9.0", true},
		{">1.2.3", "1.2.4", true},
		{">1.2.3", "1.2.3", false},
		{">1.2", "1.2.9", false},
		{">1.2", "1.3.0", true},
		{">=1.2.3", "1.2.3", true},
		{"<2.0.0", "1.99.0", true},
		{"<2.0.0", "2.0.0", false},
		{"<=1.2", "1.2.9", true},
		{"<=1.2", "1.3.0", false},
		{">= 1.0.0 < 2.0.0", "1.5.0", true},
		{">=1.0.0 <2.0.0", "2.0.0", false},
		{"1.2.3 - 2.3.4", "2.3.4", true},
		{"1.2.3 - 2.3.4", "2.3.5", false},
		{"1.2.3 - 2.3", "2.3.9", true},
		{"1.2.3 - 2", "2.9.9", true},
		{"^1.0.0 || ^3.0.0", "3.1.0", true},
		{"^1.0.0 || ^3.0.0", "2.1.0", false},
		{"^1.0.0", "1.1.0-beta", false},
		{"^1.1.0-beta", "1.1.0-beta.2", true},
		{"^1.1.0-beta", "1.2.0", true},
		{"^1.1.0-beta", "1.2.0-beta", false},
	}

	for _, tt := range tests {
		t.Run(tt.rng+"_"+tt.version, func(t *testing.T) {
			t.Parallel()

			r, err := ParseRange(tt.rng)
			if err != nil {
				t.Fatalf("ParseRange(%q) unexpected error: %v", tt.rng, err)
			}
			v, err := ParseVersion(tt.version)
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.version, err)
			}
			if got := r.Matches(v); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.rng, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"latest", "next", ">>1", "1.2.3.4", "^", "1.2.3 - ", "abc || 1.0.0",
		"99999999999999999999.0.0", "^1.99999999999999999999", ">=1.2.99999999999999999999", "9223372036854775807"} {
		if IsValidRange(input) {
			t.Errorf("IsValidRange(%q) = true, want false", input)
		}
	}
}

func TestRange_MaxSatisfying(t *testing.T) {
	t.Parallel()

	versions := []string{"1.0.0", "1.2.0", "1.10.0", "2.0.0", "2.1.0-beta", "not-a-version"}

	tests := []struct {
		rng    string
		want   string
		wantOK bool
	}{
		{"^1.0.0", "1.10.0", true},
		{"~1.2.0", "1.2.0", true},
		{"*", "2.0.0", true},
		{">=3.0.0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			t.Parallel()

			r, err := ParseRange(tt.rng)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := r.MaxSatisfying(versions)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MaxSatisfying() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSortVersions(t *testing.T) {
	t.Parallel()

	got := SortVersions([]string{"1.0.0", "bogus", "2.0.0-rc.1", "2.0.0", "1.10.0", "1.9.0"})
	want := []string{"2.0.0", "2.0.0-rc.1", "1.10.0", "1.9.0", "1.0.0"}
	if !slices.Equal(got, want) {
		t.Errorf("SortVersions() = %v, want %v", got, want)
	}
}
