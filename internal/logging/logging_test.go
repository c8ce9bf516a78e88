// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := New(&buf, tt.verbose)
			l.Debug("state transition", "state", "materialize")
			l.Error("manifest write failed")

			out := buf.String()
			if got := strings.Contains(out, "state transition"); got != tt.wantDebug {
				t.Errorf("debug record present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "manifest write failed") {
				t.Errorf("error record missing:\n%s", out)
			}
			if !strings.Contains(out, Prefix) {
				t.Errorf("prefix %q missing:\n%s", Prefix, out)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Component(New(&buf, true), "orchestrator").Info("ready")
	if !strings.Contains(buf.String(), "component=orchestrator") {
		t.Errorf("component field missing: %s", buf.String())
	}

	// A nil parent must not panic.
	Component(nil, "source").Info("dropped")
}
