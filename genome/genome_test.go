// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genome

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/fai"
)

func writeFasta(t *testing.T, dir string) string {
	t.Helper()
	content := ">chr1\n" +
		"acgtACGTacgtACGTNNNNNNNNNNacgtACGTacgtACGT\n" +
		">chr2\n" +
		"GGGGCCCCAAAATTTT\n"

	path := filepath.Join(dir, "ref.fa")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile fasta: %v", err)
	}

	idx, err := fai.NewIndex(bytes.NewReader([]byte(content)))
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	faiFile, err := os.Create(path + ".fai")
	if err != nil {
		t.Fatalf("Create .fai: %v", err)
	}
	defer faiFile.Close()
	if err := fai.WriteTo(faiFile, idx); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return path
}

func TestReferenceSequenceUppercases(t *testing.T) {
	path := writeFasta(t, t.TempDir())
	ref, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ref.Close()

	got, err := ref.Sequence("chr1", 0, 8)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	if got != "ACGTACGT" {
		t.Errorf("Sequence(chr1,0,8) = %q, want %q (mixed case folded to upper)", got, "ACGTACGT")
	}
}

func TestReferenceSequenceSecondContig(t *testing.T) {
	path := writeFasta(t, t.TempDir())
	ref, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ref.Close()

	got, err := ref.Sequence("chr2", 4, 8)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	if got != "CCCC" {
		t.Errorf("Sequence(chr2,4,8) = %q, want %q", got, "CCCC")
	}
}

func TestReferenceSequenceInvalidRange(t *testing.T) {
	path := writeFasta(t, t.TempDir())
	ref, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ref.Close()

	if _, err := ref.Sequence("chr1", 5, 2); err == nil {
		t.Error("Sequence with end < start = nil error, want an error")
	}
}

func TestOpenMissingIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.fa")
	if err := os.WriteFile(path, []byte(">chr1\nACGT\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open with no .fai sibling = nil error, want an error")
	}
}
