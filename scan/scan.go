// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan drives the two-pass variant-calling engine: a first
// pass over split-read (SA-tagged) alignments that discovers candidate
// tandem duplication breakpoints, and a second pass that aggregates
// supporting soft-clip and in-CIGAR-insertion evidence per region,
// rescues additional soft-clipped support by local alignment, and
// materializes the result as an ordered list of events.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/kortschak/scanitd/event"
	"github.com/kortschak/scanitd/readmodel"
	"github.com/kortschak/scanitd/region"
	"github.com/kortschak/scanitd/rescue"
	"github.com/kortschak/scanitd/rotate"
	"github.com/kortschak/scanitd/scanlog"
	"github.com/kortschak/scanitd/splitread"
)

// ErrNotCoordinateSorted is returned by Open when the BAM header does
// not declare coordinate sort order.
var ErrNotCoordinateSorted = errors.New("scan: alignment file is not coordinate-sorted")

// Genome is read-only, uppercase random access to reference sequence.
type Genome interface {
	Sequence(chrom string, start, end int) (string, error)
}

// Params are the thresholds and tunables that drive variant calling,
// one field per CLI flag of the same concern, plus MicroinsertionCutoff,
// which has no flag.
type Params struct {
	MapQCutoff           int
	MinAO                int
	MinDepth             int
	MinVAF               float64
	ITDLengthCutoff      int
	AlnMismatches        int // rescue.Try budget
	InsMismatches        int // rotate.Check budget
	MicroinsertionCutoff int
}

// DefaultParams mirror the CLI's documented defaults.
var DefaultParams = Params{
	MapQCutoff:           15,
	MinAO:                4,
	MinDepth:             10,
	MinVAF:               0.1,
	ITDLengthCutoff:      10,
	AlnMismatches:        rescue.DefaultAllowedMismatches,
	InsMismatches:        rotate.DefaultAllowedMismatches,
	MicroinsertionCutoff: splitread.DefaultMicroinsertionCutoff,
}

// Scanner holds the open alignment file and reference used across a
// run, and the logger and parameters threaded through both passes.
type Scanner struct {
	file   *os.File
	reader *bam.Reader
	idx    *bam.Index
	genome Genome
	log    scanlog.Logger
	params Params
}

// Open opens the coordinate-sorted, indexed BAM at bamPath and
// associates it with genome for breakpoint sequence extraction.
func Open(bamPath string, genome Genome, log scanlog.Logger, params Params) (*Scanner, error) {
	f, err := os.Open(bamPath)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	r, err := bam.NewReader(f, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("scan: %w", err)
	}
	if r.Header().SortOrder != sam.Coordinate {
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrNotCoordinateSorted, r.Header().SortOrder)
	}

	bf, err := os.Open(bamPath + ".bai")
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("scan: missing bam index: %w", err)
	}
	idx, err := bam.ReadIndex(bf)
	bf.Close()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("scan: malformed bam index: %w", err)
	}

	return &Scanner{file: f, reader: r, idx: idx, genome: genome, log: log, params: params}, nil
}

// Close releases the alignment file.
func (s *Scanner) Close() error { return s.file.Close() }

// Header returns the alignment file's header.
func (s *Scanner) Header() *sam.Header { return s.reader.Header() }

// Run scans every region in targets and returns the discovered events
// ordered by (chrom, ref_start). A per-region iterator failure is
// logged and that region is skipped; the run otherwise continues to
// completion.
func (s *Scanner) Run(ctx context.Context, targets *region.Targets) ([]event.Event, error) {
	agg := newAggregator(s.genome, s.params)

	for _, chrom := range targets.Chroms() {
		ref := s.referenceNamed(chrom)
		if ref == nil {
			s.log.Warningf("target chromosome %q not present in alignment header, skipping", chrom)
			continue
		}
		for _, iv := range targets.Regions(chrom) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records, err := s.loadRegion(ref, iv)
			if err != nil {
				s.log.Warningf("region %s:%d-%d: %v, skipping", iv.Chrom, iv.Start, iv.End, err)
				continue
			}
			s.scanRegion(agg, iv, records)
		}
	}

	return agg.events(), nil
}

func (s *Scanner) referenceNamed(name string) *sam.Reference {
	for _, ref := range s.reader.Header().Refs() {
		if ref.Name() == name {
			return ref
		}
	}
	return nil
}

// loadRegion buffers every record overlapping iv. Buffering lets the
// second pass re-walk the same reads for depth counting without a
// second index query.
func (s *Scanner) loadRegion(ref *sam.Reference, iv region.Interval) ([]*sam.Record, error) {
	chunks, err := s.idx.Chunks(ref, iv.Start, iv.End)
	if err != nil {
		return nil, err
	}
	it, err := bam.NewIterator(s.reader, chunks)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var records []*sam.Record
	for it.Next() {
		records = append(records, it.Record())
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return records, nil
}

// scanRegion runs the SA pass then the pileup-equivalent pass over the
// records buffered for one target region.
func (s *Scanner) scanRegion(agg *aggregator, iv region.Interval, records []*sam.Record) {
	anchors := s.saPass(iv, records)
	s.pileupPass(agg, iv, records, anchors)
}

// saPass implements pass 1: for every qualifying primary read with a
// single SA segment, run the split-read handler and record its anchor
// by query name.
func (s *Scanner) saPass(iv region.Interval, records []*sam.Record) map[string]splitread.Anchor {
	anchors := make(map[string]splitread.Anchor)
	for _, rec := range records {
		if rec.Flags&(sam.Secondary|sam.Supplementary|sam.Unmapped) != 0 {
			continue
		}
		if !iv.Contains(rec.Start()) {
			continue
		}
		sa, ok := rec.Tag([]byte("SA"))
		if !ok {
			continue
		}
		saStr, _ := sa.Value().(string)
		entries := strings.Split(strings.TrimSuffix(saStr, ";"), ";")
		if len(entries) != 1 {
			// Multi-hop chimera; discarded.
			continue
		}

		primary, err := recordToRead(rec)
		if err != nil {
			s.log.Warningf("malformed cigar for %s: %v", rec.Name, err)
			continue
		}
		saRead, err := parseSAEntry(entries[0], rec)
		if err != nil {
			s.log.Warningf("malformed SA tag for %s: %v", rec.Name, err)
			continue
		}

		anchor, ok, err := splitread.Handle(primary, saRead, s.params.MicroinsertionCutoff, s.genome)
		if err != nil {
			s.log.Warningf("split-read handling failed for %s: %v", rec.Name, err)
			continue
		}
		if ok {
			anchors[rec.Name] = anchor
		}
	}
	return anchors
}

// parseSAEntry builds the SA segment's Read from one semicolon-
// delimited SA tag entry ("rname,pos,strand,CIGAR,mapQ,NM"), taking its
// query sequence from primary in the SA segment's own orientation.
func parseSAEntry(entry string, primary *sam.Record) (*readmodel.Read, error) {
	fields := strings.Split(entry, ",")
	if len(fields) != 6 {
		return nil, fmt.Errorf("scan: malformed SA entry %q", entry)
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("scan: malformed SA position %q", entry)
	}
	mapq, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("scan: malformed SA mapq %q", entry)
	}
	nm, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("scan: malformed SA NM %q", entry)
	}
	var strand region.Strand
	switch fields[2] {
	case "+":
		strand = region.Forward
	case "-":
		strand = region.Reverse
	default:
		return nil, fmt.Errorf("scan: malformed SA strand %q", entry)
	}

	// The SA tag's CIGAR/strand describe the supplementary alignment as
	// it was aligned; its query sequence is reconstructed from the
	// primary record, reverse-complemented when the two strands
	// disagree so it reads in the SA segment's own orientation.
	seq := primary.Seq.Expand()
	qual := primary.Qual
	if (strand == region.Reverse) != (primary.Strand() < 0) {
		seq, qual = readmodel.ReverseComplement(seq, qual)
	}

	return readmodel.New(primary.Name, fields[0], pos-1, strand, fields[3], byte(mapq), nm, seq, qual)
}

func recordToRead(rec *sam.Record) (*readmodel.Read, error) {
	strand := region.Forward
	if rec.Strand() < 0 {
		strand = region.Reverse
	}
	nm := 0
	if v, ok := rec.Tag([]byte("NM")); ok {
		nm = auxInt(v.Value())
	}
	return readmodel.New(rec.Name, rec.Ref.Name(), rec.Start(), strand, rec.Cigar.String(), rec.MapQ, nm, rec.Seq.Expand(), rec.Qual)
}

func auxInt(v interface{}) int {
	switch n := v.(type) {
	case int8:
		return int(n)
	case uint8:
		return int(n)
	case int16:
		return int(n)
	case uint16:
		return int(n)
	case int32:
		return int(n)
	case uint32:
		return int(n)
	default:
		return 0
	}
}
