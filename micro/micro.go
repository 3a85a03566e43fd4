// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package micro classifies the short sequence found at a tandem
// duplication breakpoint as a microinsertion, a microhomology, or a
// blunt end.
package micro

import "strings"

// Kind discriminates the three breakpoint-region classes.
type Kind int

const (
	BluntEnd Kind = iota
	Microinsertion
	Microhomology
)

func (k Kind) String() string {
	switch k {
	case Microinsertion:
		return "microinsertion"
	case Microhomology:
		return "microhomology"
	default:
		return "blunt_end"
	}
}

// Region is a labeled short sequence extracted from a breakpoint.
// Equality and use as a map key are over (Kind, Sequence); Length is
// derived from Sequence and is not part of the comparison but is
// exposed for convenience and invariant checks.
type Region struct {
	Kind     Kind
	Sequence string
}

// New labels input according to its leading sigil: a "+" prefix marks a
// microinsertion, a "-" prefix a microhomology, and anything else a
// blunt end with an empty sequence.
func New(input string) Region {
	switch {
	case strings.HasPrefix(input, "+"):
		return Region{Kind: Microinsertion, Sequence: input[1:]}
	case strings.HasPrefix(input, "-"):
		return Region{Kind: Microhomology, Sequence: input[1:]}
	default:
		return Region{Kind: BluntEnd}
	}
}

// Length returns the length of the region's sequence.
func (r Region) Length() int { return len(r.Sequence) }

// String renders r back into its sigil-prefixed form.
func (r Region) String() string {
	switch r.Kind {
	case Microinsertion:
		return "+" + r.Sequence
	case Microhomology:
		return "-" + r.Sequence
	default:
		return ""
	}
}
