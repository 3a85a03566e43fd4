// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swalign

import "testing"

var defaultParams = Params{Match: 2, Mismatch: -2, GapOpen: 3, GapExtend: 1}

func TestAlignIdentical(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	a := Align(seq, seq, defaultParams)
	if a.RefStart != 0 || a.RefEnd != len(seq) || a.QueryStart != 0 || a.QueryEnd != len(seq) {
		t.Fatalf("Align identical sequences = %+v, want full span anchor", a)
	}
	snvs, ins, del, mm := Tally(a, seq, seq)
	if snvs != 0 || ins != 0 || del != 0 || mm != 0 {
		t.Errorf("Tally identical = snvs=%d ins=%d del=%d mm=%d, want all 0", snvs, ins, del, mm)
	}
}

func TestAlignSubstitution(t *testing.T) {
	ref := []byte("ACGTACGTACGTACGT")
	query := append([]byte(nil), ref...)
	query[8] = 'N'
	a := Align(ref, query, defaultParams)
	snvs, _, _, mm := Tally(a, ref, query)
	if snvs != 1 || mm != 1 {
		t.Errorf("Tally single substitution = snvs=%d mm=%d, want 1,1", snvs, mm)
	}
}

func TestAlignLocalAnchoring(t *testing.T) {
	// Query embedded with unrelated flanking junk on both sides; the
	// local alignment should anchor to the embedded, matching portion.
	ref := []byte("ACGTACGTACGTACGT")
	query := []byte("GGGGG" + string(ref) + "TTTTT")
	a := Align(ref, query, defaultParams)
	if a.QueryStart != 5 || a.QueryEnd != 5+len(ref) {
		t.Errorf("Align local anchoring query span = [%d,%d), want [5,%d)", a.QueryStart, a.QueryEnd, 5+len(ref))
	}
	if a.RefStart != 0 || a.RefEnd != len(ref) {
		t.Errorf("Align local anchoring ref span = [%d,%d), want [0,%d)", a.RefStart, a.RefEnd, len(ref))
	}
}
