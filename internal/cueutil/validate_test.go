// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string
	count?: int & >=0
	tags?: [string]: string
	...
}
`

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantErr string
	}{
		{
			name: "valid cue",
			data: `name: "demo"
count: 3`,
		},
		{
			name: "valid json with extra field",
			data: `{"name": "demo", "tags": {"a": "b"}, "extra": [1, 2]}`,
			opts: []Option{WithEncoding(EncodingJSON), WithFilename("doc.json")},
		},
		{
			name:    "wrong type reports path",
			data:    `{"name": "demo", "tags": {"a": 1}}`,
			opts:    []Option{WithEncoding(EncodingJSON), WithFilename("doc.json")},
			wantErr: "tags.a",
		},
		{
			name:    "constraint violation",
			data:    `name: "demo", count: -1`,
			opts:    []Option{WithFilename("doc.cue")},
			wantErr: "count",
		},
		{
			name:    "syntax error",
			data:    `{"name": `,
			opts:    []Option{WithEncoding(EncodingJSON), WithFilename("broken.json")},
			wantErr: "broken.json",
		},
		{
			name:    "file too large",
			data:    `name: "demo"`,
			opts:    []Option{WithMaxFileSize(4), WithFilename("big.cue")},
			wantErr: "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Validate([]byte(testSchema), "#Doc", []byte(tt.data), tt.opts...)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NonConcrete(t *testing.T) {
	t.Parallel()

	schema := []byte(`#Config: { timeout?: string, verbose: bool | *false }`)
	if _, err := Validate(schema, "#Config", []byte(`timeout: string`), WithConcrete(false)); err != nil {
		t.Errorf("non-concrete validation should accept open values: %v", err)
	}
	if _, err := Validate(schema, "#Config", []byte(`timeout: string`)); err == nil {
		t.Error("concrete validation should reject open values")
	}
}

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap([]byte(testSchema), "#Doc", []byte(`name: "demo", tags: {x: "y"}`))
	if err != nil {
		t.Fatalf("DecodeMap() unexpected error: %v", err)
	}
	if m["name"] != "demo" {
		t.Errorf("name = %v, want demo", m["name"])
	}
	tags, ok := m["tags"].(map[string]any)
	if !ok || tags["x"] != "y" {
		t.Errorf("tags = %#v, want map with x=y", m["tags"])
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"deps", "0", "name"}, "deps[0].name"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
