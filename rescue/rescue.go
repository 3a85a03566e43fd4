// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rescue re-examines the soft-clipped reads pooled during the
// pileup pass against a synthesized duplication-spanning reference
// window, using swalign as a verification oracle, and reports how many
// additional reads support a TDUP candidate beyond those already
// counted from split-read evidence.
package rescue

import (
	"fmt"

	"github.com/kortschak/scanitd/micro"
	"github.com/kortschak/scanitd/swalign"
)

// DefaultAllowedMismatches is the default rescue-pass mismatch budget,
// deliberately stricter than rotate's default in-CIGAR checker budget.
const DefaultAllowedMismatches = 1

// Genome provides read-only, uppercase access to reference sequence.
type Genome interface {
	Sequence(chrom string, start, end int) (string, error)
}

// Params are the Smith-Waterman scoring parameters used for every
// rescue alignment.
var Params = swalign.Params{Match: 2, Mismatch: -2, GapOpen: 3, GapExtend: 1}

// SMWindow builds the SM-side (breakpoint at s) reference window for a
// TDUP candidate spanning [s, s+n) with breakpoint region br.
func SMWindow(genome Genome, chrom string, s, n int, br micro.Region) (string, error) {
	window, err := genome.Sequence(chrom, s-n, s+n)
	if err != nil {
		return "", fmt.Errorf("rescue: SM window: %w", err)
	}
	switch br.Kind {
	case micro.Microinsertion:
		window += br.Sequence
	case micro.Microhomology:
		window = window[:len(window)-br.Length()]
	}
	return window, nil
}

// MSWindow builds the MS-side (breakpoint at e = s+n) reference window
// for the same candidate.
func MSWindow(genome Genome, chrom string, s, n int, br micro.Region) (string, error) {
	e := s + n
	window, err := genome.Sequence(chrom, s, e+n)
	if err != nil {
		return "", fmt.Errorf("rescue: MS window: %w", err)
	}
	switch br.Kind {
	case micro.Microinsertion:
		window = br.Sequence + window
	case micro.Microhomology:
		window = window[br.Length():]
	}
	return window, nil
}

// Side is which end of a TDUP candidate a rescue check anchors.
type Side int

const (
	SM Side = iota
	MS
)

// Try aligns query against ref with Params and reports whether the
// alignment is accepted as rescuing the given side: the variant tally's
// mismatch count must not exceed allowedMismatches, and the alignment
// must anchor the junction end appropriate to side.
func Try(ref, query []byte, side Side, allowedMismatches int) bool {
	if len(ref) == 0 || len(query) == 0 {
		return false
	}
	a := swalign.Align(ref, query, Params)
	_, _, _, mismatches := swalign.Tally(a, ref, query)
	if mismatches > allowedMismatches {
		return false
	}
	switch side {
	case SM:
		return a.RefEnd == len(ref) && a.QueryEnd == len(query)
	case MS:
		return a.RefStart == 0 && a.QueryStart == 0
	default:
		return false
	}
}

// Count runs Try against every pooled query sequence for one side of a
// candidate and returns the number that are accepted.
func Count(ref string, queries [][]byte, side Side, allowedMismatches int) int {
	rescued := 0
	refBytes := []byte(ref)
	for _, q := range queries {
		if Try(refBytes, q, side, allowedMismatches) {
			rescued++
		}
	}
	return rescued
}
