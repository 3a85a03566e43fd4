// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splitread pairs a primary alignment with its single
// supplementary-alignment (SA) segment to emit a candidate tandem
// duplication breakpoint anchor.
package splitread

import (
	"github.com/kortschak/scanitd/micro"
	"github.com/kortschak/scanitd/readmodel"
	"github.com/kortschak/scanitd/region"
)

// DefaultMicroinsertionCutoff is the default bound on bp_seq_len beyond
// which a candidate is rejected as implausible.
const DefaultMicroinsertionCutoff = 20

// Genome provides read-only, uppercase access to reference sequence,
// used to extract microhomology substrings flanking a breakpoint.
type Genome interface {
	Sequence(chrom string, start, end int) (string, error)
}

// Anchor is a candidate tandem duplication breakpoint derived from a
// split-read pair.
type Anchor struct {
	Chrom     string
	JuncStart int
	JuncEnd   int
	Strand    region.Strand
	Micro     micro.Region
}

// Handle pairs primary and sa, the supplementary alignment named by
// primary's SA tag, and attempts to emit a TDUP Anchor. It reports false
// with no error when the pair is not a productive split (different
// chromosome/strand, both clipped the same way, or the junction falls
// outside the accepted decision table).
func Handle(primary, sa *readmodel.Read, microinsertionCutoff int, genome Genome) (Anchor, bool, error) {
	if primary.Chrom != sa.Chrom || primary.Strand != sa.Strand {
		return Anchor{}, false, nil
	}

	pm, sm := primary.SimpleMode(), sa.SimpleMode()
	var lt, rt *readmodel.Read
	switch {
	case pm == readmodel.ModeSM && sm == readmodel.ModeMS:
		lt, rt = primary, sa
	case pm == readmodel.ModeMS && sm == readmodel.ModeSM:
		// Swap so lt is always the SM (left-clipped) read; is_reverse
		// bookkeeping is implicit in this reassignment and carries no
		// further meaning once lt/rt are fixed.
		lt, rt = sa, primary
	default:
		return Anchor{}, false, nil
	}

	targetStart := rt.RefStart
	targetEnd := lt.RefEnd()
	targetOffset := targetEnd - targetStart

	bpSeqLen := lt.QueryLength() - lt.Summary.RtSoftLen - rt.Summary.LtSoftLen -
		lt.Summary.ReadMatch - rt.Summary.ReadMatch

	if bpSeqLen > microinsertionCutoff {
		return Anchor{}, false, nil
	}

	var queryOffset int
	if bpSeqLen > 0 {
		queryOffset = lt.Summary.RefMatch + rt.Summary.RefMatch
	} else {
		queryOffset = lt.Summary.RefMatch + rt.Summary.RefMatch + bpSeqLen
	}
	evtSize := queryOffset - targetOffset

	if evtSize <= 0 {
		// Deletion-like geometry; not a duplication.
		return Anchor{}, false, nil
	}
	// evtSize >= queryOffset is the "large" TDUP branch; 0 < evtSize <
	// queryOffset is accepted unconditionally too (the original
	// soft-clip-length check is preserved as a no-op per the retained
	// decision table).

	ltBPSeq, err := breakpointSeq(lt, true, bpSeqLen, genome)
	if err != nil {
		return Anchor{}, false, err
	}

	return Anchor{
		Chrom:     lt.Chrom,
		JuncStart: lt.RefStart,
		JuncEnd:   lt.RefStart + evtSize,
		Strand:    lt.Strand,
		Micro:     micro.New(ltBPSeq),
	}, true, nil
}

// breakpointSeq extracts the sigil-prefixed breakpoint-region string for
// r, which must be the lt (SM) read if isLt is true, or the rt (MS)
// read otherwise.
func breakpointSeq(r *readmodel.Read, isLt bool, bpSeqLen int, genome Genome) (string, error) {
	switch {
	case bpSeqLen > 0:
		if isLt {
			clip := r.LeftSoftClipSeq()
			return "+" + string(clip[len(clip)-bpSeqLen:]), nil
		}
		clip := r.RightSoftClipSeq()
		return "+" + string(clip[:bpSeqLen]), nil
	case bpSeqLen < 0:
		if isLt {
			seq, err := genome.Sequence(r.Chrom, r.RefStart, r.RefStart-bpSeqLen)
			if err != nil {
				return "", err
			}
			return "-" + seq, nil
		}
		seq, err := genome.Sequence(r.Chrom, r.RefEnd()+bpSeqLen, r.RefEnd())
		if err != nil {
			return "", err
		}
		return "-" + seq, nil
	default:
		return "", nil
	}
}
