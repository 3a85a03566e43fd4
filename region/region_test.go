// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"strings"
	"testing"
)

func TestIntervalContainment(t *testing.T) {
	a, _ := New("chr1", 0, 10)
	if !a.Contains(0) || !a.Contains(9) || a.Contains(10) {
		t.Errorf("Contains boundary behaviour wrong for %+v", a)
	}
	b, _ := New("chr1", 20, 30)
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Errorf("disjoint intervals reported as overlapping")
	}
}

func TestIntervalInvalid(t *testing.T) {
	if _, err := New("chr1", 10, 5); err == nil {
		t.Errorf("New with start > end should fail")
	}
}

func TestParseBED(t *testing.T) {
	bed := "chr1\t0\t10\textra\nchr2\t20\t30\n"
	targets, err := ParseBED(strings.NewReader(bed))
	if err != nil {
		t.Fatalf("ParseBED: %v", err)
	}
	chroms := targets.Chroms()
	if len(chroms) != 2 || chroms[0] != "chr1" || chroms[1] != "chr2" {
		t.Fatalf("Chroms() = %v", chroms)
	}
	r1 := targets.Regions("chr1")
	if len(r1) != 1 || r1[0].Start != 0 || r1[0].End != 10 {
		t.Errorf("Regions(chr1) = %+v", r1)
	}
}

func TestParseChromStartEnd(t *testing.T) {
	targets, err := parseToken("chr1:100-200")
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	r := targets.Regions("chr1")
	if len(r) != 1 || r[0].Start != 100 || r[0].End != 200 {
		t.Errorf("Regions(chr1) = %+v", r)
	}
}

func TestParseChromStartEndInvalid(t *testing.T) {
	for _, s := range []string{"chr1-100-200", "chr1:200-100x", "chr1:", "chr1:100-100", "chr1:-5-100"} {
		if _, err := parseToken(s); err == nil {
			t.Errorf("parseToken(%q) should fail", s)
		}
	}
}

func TestParseChromStartEndRejectsEqualAndNegative(t *testing.T) {
	if _, err := parseChromStartEnd("chr1:100-100"); err == nil {
		t.Error("parseChromStartEnd with start==end should fail")
	}
	if _, err := newTargetInterval("chr1", -1, 100); err == nil {
		t.Error("newTargetInterval with a negative start should fail")
	}
	if _, err := newTargetInterval("chr1", 0, -1); err == nil {
		t.Error("newTargetInterval with a negative end should fail")
	}
}

func TestParseBEDRejectsEqualCoordinates(t *testing.T) {
	if _, err := ParseBED(strings.NewReader("chr1\t100\t100\n")); err == nil {
		t.Error("ParseBED with start==end should fail")
	}
}
