// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swalign implements affine-gap Smith-Waterman local alignment.
// It is the verification oracle used by the soft-clip rescue pass: given
// a candidate supporting read and a synthesized duplication-spanning
// reference window, it reports the best local alignment as a run of
// CIGAR-style operations together with the aligned spans of each
// sequence, from which the rescue pass judges geometric anchoring and
// counts mismatches.
package swalign

// OpType is a local-alignment CIGAR-style operation.
type OpType byte

const (
	Match OpType = 'M'
	Ins   OpType = 'I'
	Del   OpType = 'D'
)

// Op is a single (operation, length) step of an alignment traceback.
type Op struct {
	Type OpType
	Len  int
}

// Params are the scoring parameters of the aligner. Match and Mismatch
// are added directly to the score (Mismatch is ordinarily negative); gap
// of length L costs GapOpen+(L-1)*GapExtend.
type Params struct {
	Match, Mismatch, GapOpen, GapExtend int
}

// Alignment is the best-scoring local alignment of a reference and query
// sequence under a given Params.
type Alignment struct {
	Ops []Op

	// RefStart, RefEnd and QueryStart, QueryEnd are the half-open spans
	// of ref and query, respectively, that the alignment covers.
	RefStart, RefEnd     int
	QueryStart, QueryEnd int

	Score int
}

const negInf = -1 << 30

// Align computes the best local alignment of ref against query using
// Gotoh's O(nm) affine-gap dynamic program.
func Align(ref, query []byte, p Params) Alignment {
	n, m := len(ref), len(query)
	if n == 0 || m == 0 {
		return Alignment{}
	}

	h := make([][]int, n+1)
	e := make([][]int, n+1) // best score ending in a gap in query (consumes ref): Del
	f := make([][]int, n+1) // best score ending in a gap in ref (consumes query): Ins
	for i := range h {
		h[i] = make([]int, m+1)
		e[i] = make([]int, m+1)
		f[i] = make([]int, m+1)
	}
	for j := 0; j <= m; j++ {
		e[0][j] = negInf
	}
	for i := 0; i <= n; i++ {
		f[i][0] = negInf
	}

	type trace byte
	const (
		traceStop trace = iota
		traceDiag
		traceUp   // Del, consumes ref only
		traceLeft // Ins, consumes query only
	)
	back := make([][]trace, n+1)
	for i := range back {
		back[i] = make([]trace, m+1)
	}

	best, bi, bj := 0, 0, 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e[i][j] = max(h[i-1][j]-p.GapOpen, e[i-1][j]-p.GapExtend)
			f[i][j] = max(h[i][j-1]-p.GapOpen, f[i][j-1]-p.GapExtend)

			sub := p.Mismatch
			if ref[i-1] == query[j-1] {
				sub = p.Match
			}
			diag := h[i-1][j-1] + sub

			score, t := 0, traceStop
			if diag > score {
				score, t = diag, traceDiag
			}
			if e[i][j] > score {
				score, t = e[i][j], traceUp
			}
			if f[i][j] > score {
				score, t = f[i][j], traceLeft
			}
			h[i][j] = score
			back[i][j] = t

			if score > best {
				best, bi, bj = score, i, j
			}
		}
	}

	aln := Alignment{RefEnd: bi, QueryEnd: bj, Score: best}
	i, j := bi, bj
	var ops []Op
	for i > 0 && j > 0 && back[i][j] != traceStop {
		switch back[i][j] {
		case traceDiag:
			ops = append(ops, Op{Type: Match, Len: 1})
			i--
			j--
		case traceUp:
			ops = append(ops, Op{Type: Del, Len: 1})
			i--
		case traceLeft:
			ops = append(ops, Op{Type: Ins, Len: 1})
			j--
		}
	}
	aln.RefStart, aln.QueryStart = i, j

	// ops was built backwards; reverse and run-length encode.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	aln.Ops = collapse(ops)
	return aln
}

func collapse(ops []Op) []Op {
	if len(ops) == 0 {
		return nil
	}
	out := make([]Op, 0, len(ops))
	cur := ops[0]
	for _, op := range ops[1:] {
		if op.Type == cur.Type {
			cur.Len += op.Len
			continue
		}
		out = append(out, cur)
		cur = op
	}
	return append(out, cur)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Tally walks alignment's ops against ref[RefStart:RefEnd] and
// query[QueryStart:QueryEnd] and counts SNVs, insertions, deletions, and
// total mismatches, per the variant tally described for soft-clip
// rescue: each M step contributes one SNV per differing base pair; each
// I step contributes one insertion and Len mismatches; each D step
// contributes one deletion and Len mismatches.
func Tally(a Alignment, ref, query []byte) (snvs, insertions, deletions, mismatches int) {
	ri, qi := a.RefStart, a.QueryStart
	for _, op := range a.Ops {
		switch op.Type {
		case Match:
			for k := 0; k < op.Len; k++ {
				if ref[ri+k] != query[qi+k] {
					snvs++
					mismatches++
				}
			}
			ri += op.Len
			qi += op.Len
		case Ins:
			insertions++
			mismatches += op.Len
			qi += op.Len
		case Del:
			deletions++
			mismatches += op.Len
			ri += op.Len
		}
	}
	return snvs, insertions, deletions, mismatches
}
