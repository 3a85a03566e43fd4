// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cigar

import (
	"errors"
	"testing"
)

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"10Q", "M10", "", "10M2I5M garbage"} {
		if s == "" {
			continue
		}
		_, err := Parse(s)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want ErrMalformed", s, err)
		}
	}
}

func TestSummarizeSimple(t *testing.T) {
	c, err := Parse("10M2I5M")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := Summarize(c)
	want := Summary{ReadMatch: 17, RefMatch: 15, IndelLen: -2, QueryLen: 17}
	if s.ReadMatch != want.ReadMatch || s.RefMatch != want.RefMatch ||
		s.IndelLen != want.IndelLen || s.QueryLen != want.QueryLen ||
		s.LtSoftLen != 0 || s.RtSoftLen != 0 {
		t.Errorf("Summarize(%q) = %+v, want %+v", c, s, want)
	}
}

func TestSummarizeSoftClipped(t *testing.T) {
	c, err := Parse("5S27M2I5M10N10M15S")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := Summarize(c)
	if s.LtSoftLen != 5 || s.RtSoftLen != 15 || s.ReadMatch != 44 ||
		s.RefMatch != 52 || s.QueryLen != 64 {
		t.Errorf("Summarize(%q) = %+v, want lt=5 rt=15 read=44 ref=52 query=64", c, s)
	}
	if len(s.NoSoft) != len(c)-2 {
		t.Errorf("NoSoft len = %d, want %d", len(s.NoSoft), len(c)-2)
	}
}

func TestString(t *testing.T) {
	c, err := Parse("5S27M15S")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.String(); got != "5S27M15S" {
		t.Errorf("String() = %q, want %q", got, "5S27M15S")
	}
}
