// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event holds the materialized variant call produced by the
// scanner, and the ordering used when writing them out.
package event

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/scanitd/micro"
)

// Kind discriminates the two variant classes scanitd emits.
type Kind int

const (
	TDUP Kind = iota
	INS
)

func (k Kind) String() string {
	if k == INS {
		return "INS"
	}
	return "TDUP"
}

// Event is a fully aggregated, rescue-augmented variant call.
type Event struct {
	Chrom    string
	RefStart int
	Size     int
	Sequence string
	Kind     Kind

	OriginalAO int
	AO         int
	DP         int

	RefAllele        string
	AltAllele        string
	BreakPointRegion micro.Region
}

// End returns the event's reference end coordinate: RefStart+Size for a
// TDUP, RefStart for an INS.
func (e Event) End() int {
	if e.Kind == TDUP {
		return e.RefStart + e.Size
	}
	return e.RefStart
}

// AF is the allele frequency AO/DP rounded to 4 decimal places. It
// returns 0 when DP is 0.
func (e Event) AF() float64 {
	if e.DP == 0 {
		return 0
	}
	return floats.Round(float64(e.AO)/float64(e.DP), 4)
}

// SortByPosition orders events by (Chrom, RefStart), the order required
// at output time.
func SortByPosition(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Chrom != events[j].Chrom {
			return events[i].Chrom < events[j].Chrom
		}
		return events[i].RefStart < events[j].RefStart
	})
}
