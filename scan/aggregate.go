// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scan

import (
	"github.com/biogo/hts/sam"

	"github.com/kortschak/scanitd/cigar"
	"github.com/kortschak/scanitd/event"
	"github.com/kortschak/scanitd/micro"
	"github.com/kortschak/scanitd/readmodel"
	"github.com/kortschak/scanitd/region"
	"github.com/kortschak/scanitd/rescue"
	"github.com/kortschak/scanitd/rotate"
	"github.com/kortschak/scanitd/splitread"
)

// poolKey addresses a pool of soft-clipped query sequences gathered in
// support of whichever TDUP candidate breaks at (Chrom, Pos) on the
// given side.
type poolKey struct {
	Chrom string
	Pos   int
	Mode  readmodel.Mode
}

// tdupKey identifies one TDUP candidate, matching spec.md's candidate
// id: the duplicated span, its sequence, and its breakpoint region.
type tdupKey struct {
	Chrom    string
	RefStart int
	Size     int
	Sequence string
	Region   micro.Region
}

// insKey identifies one INS candidate.
type insKey struct {
	Chrom    string
	RefStart int
	Size     int
	Sequence string
}

// candidate accumulates the evidence for one TDUP or INS call.
type candidate struct {
	refAllele string
	altAllele string
	ao        int
	dp        int
}

// aggregator is pass 2's running state across every region of a run.
// countedSR tracks, per query_name, whether that read has already
// contributed to a tdup_ao denominator or the soft-clip pool, per the
// counting discipline in spec.md §4.5: a name counts at most once
// regardless of how many regions or pileup columns it appears under.
type aggregator struct {
	genome Genome
	params Params

	pool      map[poolKey][][]byte
	tdups     map[tdupKey]*candidate
	inss      map[insKey]*candidate
	countedSR map[string]bool
}

func newAggregator(genome Genome, params Params) *aggregator {
	return &aggregator{
		genome:    genome,
		params:    params,
		pool:      make(map[poolKey][][]byte),
		tdups:     make(map[tdupKey]*candidate),
		inss:      make(map[insKey]*candidate),
		countedSR: make(map[string]bool),
	}
}

func (a *aggregator) tdupCandidate(key tdupKey, refAllele string) *candidate {
	c, ok := a.tdups[key]
	if !ok {
		c = &candidate{refAllele: refAllele, altAllele: refAllele}
		a.tdups[key] = c
	}
	return c
}

func (a *aggregator) insCandidate(key insKey, refAllele, altAllele string) *candidate {
	c, ok := a.inss[key]
	if !ok {
		c = &candidate{refAllele: refAllele, altAllele: altAllele}
		a.inss[key] = c
	}
	return c
}

// pileupPass implements spec.md §4.5 pass 2 over one region's buffered
// records: soft-clip pooling, TDUP anchor aggregation, and in-CIGAR
// insertion detection, all gated by mapq_cutoff.
func (s *Scanner) pileupPass(agg *aggregator, iv region.Interval, records []*sam.Record, anchors map[string]splitread.Anchor) {
	for _, rec := range records {
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		if int(rec.MapQ) < s.params.MapQCutoff {
			continue
		}

		cigarStr := rec.Cigar.String()
		hasS := containsOp(cigarStr, 'S')
		hasH := containsOp(cigarStr, 'H')

		read, err := recordToRead(rec)
		if err != nil {
			s.log.Warningf("malformed cigar for %s: %v", rec.Name, err)
			continue
		}

		if hasS && !hasH {
			s.accumulateSplitRead(agg, records, rec, read, anchors)
		}

		s.checkInCigarInsertion(agg, records, rec, read)
	}
}

func containsOp(cigarStr string, op byte) bool {
	for i := 0; i < len(cigarStr); i++ {
		if cigarStr[i] == op {
			return true
		}
	}
	return false
}

// accumulateSplitRead handles one split-read primary: either pooling its
// soft-clipped end for later rescue, or, when its name carries a TDUP
// anchor from pass 1, crediting that candidate's tdup_ao.
func (s *Scanner) accumulateSplitRead(agg *aggregator, records []*sam.Record, rec *sam.Record, read *readmodel.Read, anchors map[string]splitread.Anchor) {
	anchor, isAnchor := anchors[rec.Name]
	if !isAnchor {
		if agg.countedSR[rec.Name] {
			return
		}
		mode := read.SimpleMode()
		var key poolKey
		var seq []byte
		if mode == readmodel.ModeSM {
			key = poolKey{Chrom: read.Chrom, Pos: read.RefStart, Mode: readmodel.ModeSM}
			seq = read.LeftSoftClipSeq()
		} else {
			key = poolKey{Chrom: read.Chrom, Pos: read.RefEnd(), Mode: readmodel.ModeMS}
			seq = read.RightSoftClipSeq()
		}
		if len(seq) > 0 {
			agg.pool[key] = append(agg.pool[key], seq)
		}
		agg.countedSR[rec.Name] = true
		return
	}

	chrom, sPos, ePos := anchor.Chrom, anchor.JuncStart, anchor.JuncEnd
	tdupSeq, err := s.genome.Sequence(chrom, sPos, ePos)
	if err != nil {
		s.log.Warningf("tdup sequence %s:%d-%d: %v", chrom, sPos, ePos, err)
		return
	}
	refAllele, err := s.genome.Sequence(chrom, sPos, sPos+1)
	if err != nil {
		s.log.Warningf("ref allele %s:%d: %v", chrom, sPos, err)
		return
	}

	key := tdupKey{Chrom: chrom, RefStart: sPos, Size: ePos - sPos, Sequence: tdupSeq, Region: anchor.Micro}
	c := agg.tdupCandidate(key, refAllele)
	if !agg.countedSR[rec.Name] {
		c.ao++
		agg.countedSR[rec.Name] = true
	}
	c.dp = depthAt(records, chrom, sPos)
}

// checkInCigarInsertion walks read's CIGAR looking for an insertion at
// least itd_length_cutoff bases long flanked on both sides by a match
// op (M, = or X; a D or N flank does not qualify), and classifies it as a TDUP (rotational match
// found, landmark confirmed) or an INS.
func (s *Scanner) checkInCigarInsertion(agg *aggregator, records []*sam.Record, rec *sam.Record, read *readmodel.Read) {
	refPos := read.RefStart
	queryPos := 0
	for i, op := range read.Cigar {
		switch op.Type {
		case cigar.Match, cigar.Equal, cigar.Diff:
			refPos += op.Len
			queryPos += op.Len
		case cigar.Del, cigar.RefSkip:
			refPos += op.Len
		case cigar.SoftClip:
			queryPos += op.Len
		case cigar.Ins:
			n := op.Len
			flanked := i > 0 && isRefConsuming(read.Cigar[i-1].Type) &&
				i < len(read.Cigar)-1 && isRefConsuming(read.Cigar[i+1].Type)
			if n >= s.params.ITDLengthCutoff && flanked {
				s.classifyInsertion(agg, records, read, refPos, queryPos, n)
			}
			queryPos += op.Len
		}
	}
}

func isRefConsuming(t cigar.OpType) bool {
	return t == cigar.Match || t == cigar.Equal || t == cigar.Diff
}

// classifyInsertion implements the "verifying the insertion site" step:
// col is the landmark reference position (the last reference base
// before the insertion), queryPos the query offset of the insertion's
// first base.
func (s *Scanner) classifyInsertion(agg *aggregator, records []*sam.Record, read *readmodel.Read, refPos, queryPos, n int) {
	col := refPos - 1
	chrom := read.Chrom
	inserted := string(read.Seq[queryPos : queryPos+n])

	left, err := s.genome.Sequence(chrom, col-n+2, col+1)
	if err != nil {
		s.log.Warningf("left flank %s:%d: %v", chrom, col, err)
		return
	}
	right, err := s.genome.Sequence(chrom, col+1, col+n)
	if err != nil {
		s.log.Warningf("right flank %s:%d: %v", chrom, col, err)
		return
	}
	refAllele, err := s.genome.Sequence(chrom, col, col+1)
	if err != nil {
		s.log.Warningf("ref allele %s:%d: %v", chrom, col, err)
		return
	}

	ok, shift, matched := rotate.Check(inserted, left, right, s.params.InsMismatches)
	if ok {
		// The landmark's reference position already equals col by
		// construction (it is read off the same CIGAR walk as the
		// insertion), so the spec's equality check is a no-op guard
		// here rather than a separate comparison.
		sPos := col - shift
		key := tdupKey{Chrom: chrom, RefStart: sPos, Size: n, Sequence: matched, Region: micro.Region{}}
		c := agg.tdupCandidate(key, refAllele)
		c.ao++
		c.dp = depthAt(records, chrom, sPos)
		return
	}

	// ALT is the landmark-inclusive, same-length window
	// query[queryPos-1 : queryPos-1+n): the landmark base followed by
	// the first n-1 inserted bases, not the landmark base prefixed to
	// the full n-character insertion.
	altAllele := string(read.Seq[queryPos-1 : queryPos-1+n])
	key := insKey{Chrom: chrom, RefStart: col, Size: n, Sequence: inserted}
	c := agg.insCandidate(key, refAllele, altAllele)
	c.ao++
	c.dp = depthAt(records, chrom, col)
}

// depthAt counts records on chrom overlapping [pos, pos+1).
func depthAt(records []*sam.Record, chrom string, pos int) int {
	dp := 0
	for _, rec := range records {
		if rec.Ref == nil || rec.Ref.Name() != chrom {
			continue
		}
		if rec.Start() <= pos && pos < rec.End() {
			dp++
		}
	}
	return dp
}

// events materializes every TDUP/INS candidate into an Event, running
// soft-clip rescue for TDUP candidates against their pooled support, and
// returns the result ordered by (chrom, ref_start).
func (a *aggregator) events() []event.Event {
	var out []event.Event

	for key, c := range a.tdups {
		s, n := key.RefStart, key.Size
		smQueries := a.pool[poolKey{Chrom: key.Chrom, Pos: s, Mode: readmodel.ModeSM}]
		msQueries := a.pool[poolKey{Chrom: key.Chrom, Pos: s + n, Mode: readmodel.ModeMS}]

		rescued := 0
		if smWindow, err := rescue.SMWindow(a.genome, key.Chrom, s, n, key.Region); err == nil {
			rescued += rescue.Count(smWindow, smQueries, rescue.SM, a.params.AlnMismatches)
		}
		if msWindow, err := rescue.MSWindow(a.genome, key.Chrom, s, n, key.Region); err == nil {
			rescued += rescue.Count(msWindow, msQueries, rescue.MS, a.params.AlnMismatches)
		}

		out = append(out, event.Event{
			Chrom:            key.Chrom,
			RefStart:         s,
			Size:             n,
			Sequence:         key.Sequence,
			Kind:             event.TDUP,
			OriginalAO:       c.ao,
			AO:               c.ao + rescued,
			DP:               c.dp,
			RefAllele:        c.refAllele,
			AltAllele:        c.altAllele,
			BreakPointRegion: key.Region,
		})
	}

	for key, c := range a.inss {
		out = append(out, event.Event{
			Chrom:      key.Chrom,
			RefStart:   key.RefStart,
			Size:       key.Size,
			Sequence:   key.Sequence,
			Kind:       event.INS,
			OriginalAO: c.ao,
			AO:         c.ao,
			DP:         c.dp,
			RefAllele:  c.refAllele,
			AltAllele:  c.altAllele,
		})
	}

	out = filterEvents(out, a.params)
	event.SortByPosition(out)
	return out
}

func filterEvents(events []event.Event, params Params) []event.Event {
	kept := events[:0]
	for _, e := range events {
		if e.Kind == event.TDUP && e.Size < params.ITDLengthCutoff {
			// The size ≥ itd_length_cutoff invariant: an in-CIGAR TDUP
			// is already gated above the cutoff, but an SA-pass anchor
			// carries no such floor at creation time.
			continue
		}
		if e.AO < params.MinAO || e.DP < params.MinDepth {
			continue
		}
		if e.AF() < params.MinVAF {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
