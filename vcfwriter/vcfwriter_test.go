// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcfwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/biogo/hts/sam"

	"github.com/kortschak/scanitd/event"
	"github.com/kortschak/scanitd/micro"
)

func header(t *testing.T, text string) *sam.Header {
	t.Helper()
	r, err := sam.NewReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("sam.NewReader: %v", err)
	}
	return r.Header()
}

func TestHeaderReferenceCommandFromKnownAligner(t *testing.T) {
	h := header(t, "@HD\tVN:1.5\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n@PG\tID:bwa\tPN:bwa\tCL:bwa mem ref.fa reads.fq\n")

	var buf bytes.Buffer
	if _, err := Create(&buf, "sample.vcf", h, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "##reference=<CMD=bwa mem ref.fa reads.fq,") {
		t.Errorf("header missing aligner command line:\n%s", out)
	}
	if !strings.Contains(out, "##contig=<ID=chr1,length=1000>") {
		t.Errorf("header missing contig line:\n%s", out)
	}
	if !strings.Contains(out, "##fileDate=20260731") {
		t.Errorf("header missing fileDate line:\n%s", out)
	}
	if !strings.Contains(out, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample\n") {
		t.Errorf("header missing column header line:\n%s", out)
	}
}

func TestHeaderReferenceUnknownAligner(t *testing.T) {
	h := header(t, "@HD\tVN:1.5\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n@PG\tID:mystery-aligner\tPN:mystery\tCL:mystery --go\n")

	var buf bytes.Buffer
	if _, err := Create(&buf, "sample.vcf", h, time.Now()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.Contains(buf.String(), "##reference=<CMD=Unknown,") {
		t.Errorf("expected Unknown reference command, got:\n%s", buf.String())
	}
}

func TestWriteTDUPLine(t *testing.T) {
	h := header(t, "@HD\tVN:1.5\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n")
	var buf bytes.Buffer
	vw, err := Create(&buf, "/out/mysample.vcf", h, time.Now())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	e := event.Event{
		Chrom: "chr1", RefStart: 99, Size: 12, Sequence: "ACGTACGTACGT",
		Kind: event.TDUP, OriginalAO: 3, AO: 5, DP: 10,
		RefAllele: "A", AltAllele: "A",
		BreakPointRegion: micro.New("+CGT"),
	}
	if err := vw.Write(e); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := vw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	dataLine := lines[len(lines)-1]
	fields := strings.Split(dataLine, "\t")
	if len(fields) != 10 {
		t.Fatalf("data line has %d fields, want 10: %q", len(fields), dataLine)
	}
	if fields[0] != "chr1" || fields[1] != "100" || fields[2] != "1" {
		t.Errorf("CHROM/POS/ID = %v, want chr1/100/1", fields[:3])
	}
	if fields[3] != "A" || fields[4] != "A" {
		t.Errorf("REF/ALT = %v, want A/A", fields[3:5])
	}
	if fields[5] != "." || fields[6] != "." {
		t.Errorf("QUAL/FILTER = %v, want ./.", fields[5:7])
	}
	wantInfo := "SVTYPE=TDUP;OAO=3;AO=5;CHR2=chr1;END=112;DP=10;AF=0.5;SVLEN=12;INSSEQ=CGT;HOMSEQ=.;SEQ=ACGTACGTACGT;SVMETHOD=ScanITD2"
	if fields[7] != wantInfo {
		t.Errorf("INFO = %q, want %q", fields[7], wantInfo)
	}
	if fields[8] != "GT" || fields[9] != "0/1" {
		t.Errorf("FORMAT/sample = %v, want GT/0/1", fields[8:10])
	}
}

func TestWriteIncrementsID(t *testing.T) {
	h := header(t, "@HD\tVN:1.5\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n")
	var buf bytes.Buffer
	vw, _ := Create(&buf, "sample.vcf", h, time.Now())

	e := event.Event{Chrom: "chr1", RefStart: 0, Size: 10, Kind: event.TDUP, RefAllele: "A", AltAllele: "A"}
	vw.Write(e)
	vw.Write(e)
	vw.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := strings.Split(lines[len(lines)-2], "\t")[2]; got != "1" {
		t.Errorf("first data line ID = %q, want 1", got)
	}
	if got := strings.Split(lines[len(lines)-1], "\t")[2]; got != "2" {
		t.Errorf("second data line ID = %q, want 2", got)
	}
}
