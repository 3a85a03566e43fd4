// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
		ok   bool
	}{
		{"trace", Trace, true},
		{"error", Error, true},
		{"bogus", 0, false},
	} {
		got, err := ParseLevel(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseLevel(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Warning)
	l.Infof("should not appear")
	l.Warningf("should appear: %d", 42)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("Infof below configured level was not filtered: %q", out)
	}
	if !strings.Contains(out, "should appear: 42") {
		t.Errorf("Warningf at configured level missing from output: %q", out)
	}
	if !strings.Contains(out, "[WARNING]") {
		t.Errorf("output missing level tag: %q", out)
	}
}
