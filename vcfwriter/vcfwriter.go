// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vcfwriter writes the events materialized by the scanner as a
// VCF 4.3 file.
package vcfwriter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/biogo/hts/sam"

	"github.com/kortschak/scanitd/event"
	"github.com/kortschak/scanitd/micro"
)

// Version is the value reported in the ##source header line.
const Version = "2.0.0"

// knownAligners is the case-insensitive set of @PG IDs recognized as
// the aligner that produced the BAM's original command line.
var knownAligners = map[string]bool{
	"CLC": true, "CONTEXTMAP2": true, "CRAC": true, "GSNAP": true,
	"NOVOALIGN": true, "OLEGO": true, "RUM": true, "SUBREAD": true,
	"BWA": true, "BOWTIE": true, "BOWTIE2": true,
}

var infoOrder = []string{"DP", "OAO", "AO", "AF", "SVMETHOD", "SVTYPE", "SVLEN", "CHR2", "END", "HOMSEQ", "INSSEQ", "SEQ"}

var infoType = map[string]string{
	"DP": "Integer", "OAO": "Integer", "AO": "Integer", "AF": "Float",
	"SVMETHOD": "String", "SVTYPE": "String", "SVLEN": "Integer",
	"CHR2": "String", "END": "Integer", "HOMSEQ": "String",
	"INSSEQ": "String", "SEQ": "String",
}

var infoDescription = map[string]string{
	"DP":       "Total read depth at the locus",
	"OAO":      "Original alternate allele observations",
	"AO":       "Alternate allele observations",
	"AF":       "Estimated allele frequency in the range (0,1], representing the ratio of reads showing the alternative allele to all reads",
	"SVTYPE":   "The type of event, TDUP, INS.",
	"SVLEN":    "Difference in length between REF and ALT alleles",
	"CHR2":     "Chromosome for END coordinate in case of a translocation",
	"END":      "END coordinate in case of a translocation",
	"SVMETHOD": "Type of approach used to detect SV",
	"INSSEQ":   "Sequence of micro-insertion at event breakpoint",
	"HOMSEQ":   "Sequence of micro-homology at event breakpoint",
	"SEQ":      "Duplication/Insertion sequence",
}

var altDescription = map[string]string{
	"TDUP": "Tandem duplication",
	"INS":  "Insertion",
}

// Writer writes a VCF 4.3 stream for a series of events.
type Writer struct {
	w          *bufio.Writer
	sampleName string
	nextID     int
}

// Create writes the VCF header derived from header to w. path is not
// opened; the sample name is taken from its file stem. now is the
// timestamp recorded in the ##fileDate line.
func Create(w io.Writer, path string, header *sam.Header, now time.Time) (*Writer, error) {
	vw := &Writer{
		w:          bufio.NewWriter(w),
		sampleName: sampleName(path),
		nextID:     1,
	}
	if err := vw.writeHeader(header, now); err != nil {
		return nil, fmt.Errorf("vcfwriter: %w", err)
	}
	return vw, nil
}

func sampleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Flush flushes any buffered output to the underlying writer.
func (vw *Writer) Flush() error { return vw.w.Flush() }

func (vw *Writer) writeHeader(header *sam.Header, now time.Time) error {
	fmt.Fprintln(vw.w, "##fileformat=VCFv4.3")
	fmt.Fprintf(vw.w, "##fileDate=%s\n", now.Format("20060102"))
	fmt.Fprintf(vw.w, "##source=ScanITDv%s\n", Version)
	fmt.Fprintf(vw.w, "##reference=<CMD=%s,Description=\"Alignment parameters\">\n", referenceCommand(header))

	for _, ref := range header.Refs() {
		fmt.Fprintf(vw.w, "##contig=<ID=%s,length=%d>\n", ref.Name(), ref.Len())
	}

	for _, id := range infoOrder {
		fmt.Fprintf(vw.w, "##INFO=<ID=%s,Number=1,Type=%s,Description=\"%s\">\n", id, infoType[id], infoDescription[id])
	}
	fmt.Fprintln(vw.w, `##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`)
	for _, id := range []string{"TDUP", "INS"} {
		fmt.Fprintf(vw.w, "##ALT=<ID=%s,Description=\"%s\">\n", id, altDescription[id])
	}

	fmt.Fprintf(vw.w, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t%s\n", vw.sampleName)
	return vw.w.Err()
}

// referenceCommand finds the first @PG command line whose ID names a
// known aligner, case-insensitively, or "Unknown" if none match.
func referenceCommand(header *sam.Header) string {
	for _, prog := range header.Progs() {
		if knownAligners[strings.ToUpper(prog.UID())] {
			return prog.Command()
		}
	}
	return "Unknown"
}

// Write emits one VCF data line for e.
func (vw *Writer) Write(e event.Event) error {
	id := vw.nextID
	vw.nextID++

	insSeq, homSeq := microFields(e.BreakPointRegion)

	info := strings.Join([]string{
		"SVTYPE=" + e.Kind.String(),
		"OAO=" + strconv.Itoa(e.OriginalAO),
		"AO=" + strconv.Itoa(e.AO),
		"CHR2=" + e.Chrom,
		"END=" + strconv.Itoa(e.End()+1),
		"DP=" + strconv.Itoa(e.DP),
		"AF=" + formatAF(e.AF()),
		"SVLEN=" + strconv.Itoa(e.Size),
		"INSSEQ=" + insSeq,
		"HOMSEQ=" + homSeq,
		"SEQ=" + e.Sequence,
		"SVMETHOD=ScanITD2",
	}, ";")

	_, err := fmt.Fprintf(vw.w, "%s\t%d\t%d\t%s\t%s\t.\t.\t%s\tGT\t0/1\n",
		e.Chrom, e.RefStart+1, id, e.RefAllele, e.AltAllele, info)
	return err
}

func microFields(r micro.Region) (insSeq, homSeq string) {
	insSeq, homSeq = ".", "."
	switch r.Kind {
	case micro.Microinsertion:
		insSeq = r.Sequence
	case micro.Microhomology:
		homSeq = r.Sequence
	}
	return insSeq, homSeq
}

// formatAF prints af with 3 significant digits, matching the %.3g
// convention used throughout the rest of the corpus's numeric output.
func formatAF(af float64) string {
	return strconv.FormatFloat(af, 'g', 3, 64)
}
