// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readmodel carries the per-read quantities the rest of scanitd
// operates on: coordinates, strand, CIGAR-derived totals and the query
// sequence, independent of whichever BAM library produced them.
package readmodel

import (
	"github.com/kortschak/scanitd/cigar"
	"github.com/kortschak/scanitd/region"
)

// Mode is a soft-clipped read's clip geometry.
type Mode byte

const (
	// ModeSM is a read clipped on the left (aligned match on the right).
	ModeSM Mode = 'L'
	// ModeMS is a read clipped on the right (aligned match on the left).
	ModeMS Mode = 'R'
)

func (m Mode) String() string {
	if m == ModeSM {
		return "SM"
	}
	return "MS"
}

// Read is a value carrying the fields of a single alignment record that
// the calling logic needs, plus its CIGAR-derived Summary.
type Read struct {
	Name     string
	Chrom    string
	RefStart int
	Strand   region.Strand
	MapQ     byte
	NM       int
	Seq      []byte
	Qual     []byte

	Cigar   cigar.Cigar
	Summary cigar.Summary
}

// New builds a Read, parsing cigarString with the cigar package.
func New(name, chrom string, refStart int, strand region.Strand, cigarString string, mapq byte, nm int, seq, qual []byte) (*Read, error) {
	c, err := cigar.Parse(cigarString)
	if err != nil {
		return nil, err
	}
	return &Read{
		Name:     name,
		Chrom:    chrom,
		RefStart: refStart,
		Strand:   strand,
		MapQ:     mapq,
		NM:       nm,
		Seq:      seq,
		Qual:     qual,
		Cigar:    c,
		Summary:  cigar.Summarize(c),
	}, nil
}

// RefEnd is the reference coordinate one past the last reference base
// the alignment covers.
func (r *Read) RefEnd() int { return r.RefStart + r.Summary.RefMatch }

// QueryLength is the full length of the read's query sequence, including
// any soft-clipped bases.
func (r *Read) QueryLength() int { return r.Summary.QueryLen }

// SimpleMode reports the read's soft-clip geometry: SM when the leading
// clip is at least as long as the trailing clip, MS otherwise.
func (r *Read) SimpleMode() Mode {
	if r.Summary.LtSoftLen >= r.Summary.RtSoftLen {
		return ModeSM
	}
	return ModeMS
}

// HasSoftClip reports whether the read carries any soft-clipped bases at
// either end.
func (r *Read) HasSoftClip() bool {
	return r.Summary.LtSoftLen > 0 || r.Summary.RtSoftLen > 0
}

// LeftSoftClipSeq returns the leading soft-clipped query bases.
func (r *Read) LeftSoftClipSeq() []byte {
	if r.Summary.LtSoftLen == 0 {
		return nil
	}
	return r.Seq[:r.Summary.LtSoftLen]
}

// RightSoftClipSeq returns the trailing soft-clipped query bases.
func (r *Read) RightSoftClipSeq() []byte {
	if r.Summary.RtSoftLen == 0 {
		return nil
	}
	return r.Seq[len(r.Seq)-r.Summary.RtSoftLen:]
}

var complement = [256]byte{
	'A': 'T', 'a': 't',
	'C': 'G', 'c': 'g',
	'G': 'C', 'g': 'c',
	'T': 'A', 't': 'a',
	'N': 'N', 'n': 'n',
}

// ReverseComplement returns the reverse complement of seq and the
// reverse of qual, used to put a primary record's query into a
// supplementary alignment's orientation when the two lie on different
// strands.
func ReverseComplement(seq, qual []byte) (rcSeq, rqQual []byte) {
	rcSeq = make([]byte, len(seq))
	for i, b := range seq {
		c := complement[b]
		if c == 0 {
			c = b
		}
		rcSeq[len(seq)-1-i] = c
	}
	if qual == nil {
		return rcSeq, nil
	}
	rqQual = make([]byte, len(qual))
	for i, q := range qual {
		rqQual[len(qual)-1-i] = q
	}
	return rcSeq, rqQual
}
