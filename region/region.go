// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package region implements the half-open genomic interval type used
// throughout scanitd, alignment strand, and parsing of the target-region
// specification (a BED file, a single chrom:start-end token, or the
// absence of a target meaning "whole file").
package region

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/biogo/store/interval"
)

// Strand is the orientation of an alignment.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// ErrInvalidRegion is returned when a region specification cannot be
// parsed, or describes start >= end.
var ErrInvalidRegion = errors.New("region: invalid region")

// Interval is a half-open [Start, End) interval on a chromosome.
type Interval struct {
	Chrom      string
	Start, End int

	id uintptr
}

// New returns the Interval [start, end) on chrom. It returns
// ErrInvalidRegion if start > end.
func New(chrom string, start, end int) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("%w: %s:%d-%d", ErrInvalidRegion, chrom, start, end)
	}
	return Interval{Chrom: chrom, Start: start, End: end}, nil
}

// Len returns the length of the interval.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Contains reports whether pos lies within iv.
func (iv Interval) Contains(pos int) bool {
	return iv.Start <= pos && pos < iv.End
}

// Overlaps reports whether iv and other share any position on the same
// chromosome.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Chrom == other.Chrom && iv.Start < other.End && other.Start < iv.End
}

// Translate returns iv shifted by offset.
func (iv Interval) Translate(offset int) Interval {
	iv.Start += offset
	iv.End += offset
	return iv
}

// ID satisfies interval.IntInterface so an Interval can be inserted
// directly into a github.com/biogo/store/interval.IntTree.
func (iv Interval) ID() uintptr { return iv.id }

// Range satisfies interval.IntInterface.
func (iv Interval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.Start, End: iv.End}
}

// Overlap satisfies interval.IntInterface using half-open semantics.
func (iv Interval) Overlap(b interval.IntRange) bool {
	return iv.End > b.Start && iv.Start < b.End
}

// Targets is an ordered, per-chromosome index of regions to scan.
type Targets struct {
	chroms []string
	trees  map[string]*interval.IntTree
}

// Chroms returns the chromosomes with at least one target region, in the
// order they were first seen.
func (t *Targets) Chroms() []string { return t.chroms }

// Regions returns the target regions for chrom in tree order.
func (t *Targets) Regions(chrom string) []Interval {
	tree, ok := t.trees[chrom]
	if !ok {
		return nil
	}
	var out []Interval
	tree.Do(func(iv interval.IntInterface) (done bool) {
		out = append(out, iv.(Interval))
		return false
	})
	return out
}

func newTargets() *Targets {
	return &Targets{trees: make(map[string]*interval.IntTree)}
}

func (t *Targets) insert(iv Interval) error {
	tree, ok := t.trees[iv.Chrom]
	if !ok {
		tree = &interval.IntTree{}
		t.trees[iv.Chrom] = tree
		t.chroms = append(t.chroms, iv.Chrom)
	}
	iv.id = uintptr(tree.Len() + 1)
	return tree.Insert(iv, false)
}

func (t *Targets) finish() {
	for _, tree := range t.trees {
		tree.AdjustRanges()
	}
}

// WholeFile returns a Targets covering every reference sequence named in
// header, in header SQ order.
func WholeFile(header *sam.Header) (*Targets, error) {
	t := newTargets()
	for _, ref := range header.Refs() {
		iv, err := New(ref.Name(), 0, ref.Len())
		if err != nil {
			return nil, err
		}
		if err := t.insert(iv); err != nil {
			return nil, err
		}
	}
	t.finish()
	return t, nil
}

// ParseSpec parses the -t/--target command line value. An empty spec
// yields the whole file. A spec containing a colon is parsed as a single
// chrom:start-end token; otherwise it is treated as the path to a BED
// file.
func ParseSpec(spec string, header *sam.Header) (*Targets, error) {
	if spec == "" {
		return WholeFile(header)
	}
	if strings.ContainsRune(spec, ':') {
		return parseToken(spec)
	}
	return parseBEDFile(spec)
}

func parseToken(spec string) (*Targets, error) {
	t := newTargets()
	iv, err := parseChromStartEnd(spec)
	if err != nil {
		return nil, err
	}
	if err := t.insert(iv); err != nil {
		return nil, err
	}
	t.finish()
	return t, nil
}

func parseChromStartEnd(s string) (Interval, error) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
	chrom := s[:colon]
	rest := s[colon+1:]
	dash := strings.IndexByte(rest, '-')
	if dash < 0 || chrom == "" {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
	start, err := strconv.Atoi(rest[:dash])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
	end, err := strconv.Atoi(rest[dash+1:])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
	return newTargetInterval(chrom, start, end)
}

// newTargetInterval builds the Interval for one target-region entry
// (a chrom:start-end token or a BED line), enforcing the stricter
// bounds a user-supplied target region must satisfy: both coordinates
// non-negative and start strictly less than end. This is tighter than
// Interval's own start<=end invariant, which elsewhere legitimately
// allows an empty interval.
func newTargetInterval(chrom string, start, end int) (Interval, error) {
	if start < 0 || end < 0 || start >= end {
		return Interval{}, fmt.Errorf("%w: %s:%d-%d", ErrInvalidRegion, chrom, start, end)
	}
	return New(chrom, start, end)
}

// ParseBED parses a tab-separated BED stream (0-based half-open
// chrom/start/end columns; additional columns are ignored).
func ParseBED(r io.Reader) (*Targets, error) {
	t := newTargets()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: malformed BED line %q", ErrInvalidRegion, line)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, line)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, line)
		}
		iv, err := newTargetInterval(fields[0], start, end)
		if err != nil {
			return nil, err
		}
		if err := t.insert(iv); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	t.finish()
	return t, nil
}

func parseBEDFile(path string) (*Targets, error) {
	f, err := openBED(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseBED(f)
}
