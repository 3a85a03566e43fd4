// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genome provides uppercase, random-access reference sequence
// lookup backed by an indexed FASTA file, satisfying the Genome
// interfaces consumed by splitread, rotate-based insertion checking,
// and rescue.
package genome

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/fai"
)

// Reference is an indexed FASTA file opened for random access.
type Reference struct {
	file *fai.File
}

// Open opens the FASTA file at path together with its .fai index. A
// missing file or index is a fatal condition for the caller.
func Open(path string) (*Reference, error) {
	f, err := os.Open(path + ".fai")
	if err != nil {
		return nil, fmt.Errorf("genome: missing fasta index: %w", err)
	}
	idx, err := fai.ReadFrom(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("genome: malformed fasta index: %w", err)
	}
	file, err := fai.OpenFile(path, idx)
	if err != nil {
		return nil, fmt.Errorf("genome: %w", err)
	}
	return &Reference{file: file}, nil
}

// Close releases the underlying mmapped file.
func (r *Reference) Close() error { return r.file.Close() }

// Sequence returns the uppercase bases of chrom in [start, end).
func (r *Reference) Sequence(chrom string, start, end int) (string, error) {
	if start < 0 || end < start {
		return "", fmt.Errorf("genome: invalid range %s:%d-%d", chrom, start, end)
	}
	seq, err := r.file.SeqRange(chrom, start, end)
	if err != nil {
		return "", fmt.Errorf("genome: %s:%d-%d: %w", chrom, start, end, err)
	}
	defer seq.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, seq); err != nil {
		return "", fmt.Errorf("genome: %s:%d-%d: %w", chrom, start, end, err)
	}
	return strings.ToUpper(buf.String()), nil
}
