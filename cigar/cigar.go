// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cigar decodes CIGAR alignment strings into operation sequences
// and the derived quantities the rest of scanitd needs: read- and
// reference-consuming totals, indel length and soft-clip geometry.
package cigar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// OpType is a single CIGAR operation type.
type OpType byte

// CIGAR operation types, numbered as in the SAM specification.
const (
	Match     OpType = 'M'
	Ins       OpType = 'I'
	Del       OpType = 'D'
	RefSkip   OpType = 'N'
	SoftClip  OpType = 'S'
	HardClip  OpType = 'H'
	Pad       OpType = 'P'
	Equal     OpType = '='
	Diff      OpType = 'X'
	Backtrack OpType = 'B'
)

// String returns the single-letter CIGAR representation of t.
func (t OpType) String() string { return string(rune(t)) }

// Op is a single (operation, length) pair.
type Op struct {
	Type OpType
	Len  int
}

func (o Op) String() string { return fmt.Sprintf("%d%s", o.Len, o.Type) }

// Cigar is a sequence of CIGAR operations.
type Cigar []Op

// String returns the CIGAR string representation of c.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var s []byte
	for _, op := range c {
		s = append(s, []byte(op.String())...)
	}
	return string(s)
}

// Summary holds the quantities derived from a Cigar by Summarize.
type Summary struct {
	// ReadMatch is the sum of Match|Ins lengths, which consume the query.
	ReadMatch int
	// RefMatch is the sum of Match|Del|RefSkip lengths, which consume the
	// reference.
	RefMatch int
	// IndelLen is (Del|RefSkip) length minus Ins length, signed.
	IndelLen int
	// QueryLen is ReadMatch plus the total soft-clip length.
	QueryLen int
	// LtSoftLen is the leading soft-clip length, zero if the CIGAR does
	// not begin with a SoftClip operation.
	LtSoftLen int
	// RtSoftLen is the trailing soft-clip length, zero if the CIGAR does
	// not end with a SoftClip operation.
	RtSoftLen int
	// NoSoft is c with any leading and trailing SoftClip operations
	// removed and any = or X operations recorded as M.
	NoSoft Cigar
}

// ErrMalformed is returned by Parse when the input does not match the
// CIGAR grammar (\d+[MIDNSHP=XB])+.
var ErrMalformed = errors.New("cigar: malformed cigar string")

var pattern = regexp.MustCompile(`^(\d+[MIDNSHP=XB])+$`)
var token = regexp.MustCompile(`(\d+)([MIDNSHP=XB])`)

// Parse decodes a CIGAR string into its operation sequence. The empty
// string and "*" (SAM's missing-CIGAR marker) decode to a nil Cigar with
// no error; any other s that does not match (\d+[MIDNSHP=XB])+ returns
// ErrMalformed.
func Parse(s string) (Cigar, error) {
	if s == "" || s == "*" {
		return nil, nil
	}
	if !pattern.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	matches := token.FindAllStringSubmatch(s, -1)
	c := make(Cigar, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		c = append(c, Op{Type: OpType(m[2][0]), Len: n})
	}
	return c, nil
}

// Summarize traverses c once and computes its Summary.
func Summarize(c Cigar) Summary {
	var s Summary
	for i, op := range c {
		switch op.Type {
		case Match, Equal, Diff:
			// Treat = and X as M, per the spec note that they may be
			// encountered without a dedicated contribution.
			s.ReadMatch += op.Len
			s.RefMatch += op.Len
			s.QueryLen += op.Len
			s.NoSoft = append(s.NoSoft, Op{Type: Match, Len: op.Len})
		case Ins:
			s.ReadMatch += op.Len
			s.IndelLen -= op.Len
			s.QueryLen += op.Len
			s.NoSoft = append(s.NoSoft, op)
		case Del, RefSkip:
			s.RefMatch += op.Len
			s.IndelLen += op.Len
			s.NoSoft = append(s.NoSoft, op)
		case SoftClip:
			s.QueryLen += op.Len
			if i == 0 {
				s.LtSoftLen = op.Len
			}
			if i == len(c)-1 {
				s.RtSoftLen = op.Len
			}
			// SoftClip is excluded from NoSoft only at the ends; an
			// interior S (not permitted by a valid CIGAR, but tolerated
			// here) is kept.
			if i != 0 && i != len(c)-1 {
				s.NoSoft = append(s.NoSoft, op)
			}
		case HardClip, Pad:
			// Consumed without effect on the tracked aggregates.
		default:
			// Unknown op types (e.g. Backtrack) are likewise ignored.
		}
	}
	return s
}
