// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// scanitd detects internal tandem duplications and novel insertions
// from a coordinate-sorted, indexed BAM alignment and an indexed
// reference FASTA, and emits the calls as a VCF file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kortschak/scanitd/genome"
	"github.com/kortschak/scanitd/region"
	"github.com/kortschak/scanitd/scan"
	"github.com/kortschak/scanitd/scanlog"
	"github.com/kortschak/scanitd/vcfwriter"
)

const progVersion = "2.0.0"

var (
	input  = flag.String("i", "", "input BAM file, coordinate-sorted and indexed (required)")
	ref    = flag.String("r", "", "reference FASTA file, with a .fai index (required)")
	output = flag.String("o", "", "output VCF file (required)")

	mapq     = flag.Int("m", scan.DefaultParams.MapQCutoff, "minimum mapping quality")
	ao       = flag.Int("c", scan.DefaultParams.MinAO, "minimum alternate allele observation count")
	depth    = flag.Int("d", scan.DefaultParams.MinDepth, "minimum depth at the variant locus")
	vaf      = flag.Float64("f", scan.DefaultParams.MinVAF, "minimum variant allele frequency")
	length   = flag.Int("length", scan.DefaultParams.ITDLengthCutoff, "minimum size of an internal tandem duplication")
	alnMM    = flag.Int("n", scan.DefaultParams.AlnMismatches, "mismatches allowed when rescuing soft-clipped support")
	insMM    = flag.Int("ins-mismatches", scan.DefaultParams.InsMismatches, "mismatches allowed by the in-CIGAR insertion rotation check")
	target   = flag.String("t", "", "BED file or chrom:start-end region to restrict scanning to (default: whole file)")
	logLevel = flag.String("l", "info", "log level: trace, debug, info, warning, error")
	version  = flag.Bool("v", false, "print the version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(progVersion)
		return
	}

	level, err := scanlog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scanitd: %v\n", err)
		os.Exit(1)
	}
	log := scanlog.New(os.Stderr, level)

	if *input == "" || *ref == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "scanitd: -i, -r and -o are all required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(log scanlog.Logger) error {
	refGenome, err := genome.Open(*ref)
	if err != nil {
		return err
	}
	defer refGenome.Close()

	params := scan.Params{
		MapQCutoff:           *mapq,
		MinAO:                *ao,
		MinDepth:             *depth,
		MinVAF:               *vaf,
		ITDLengthCutoff:      *length,
		AlnMismatches:        *alnMM,
		InsMismatches:        *insMM,
		MicroinsertionCutoff: scan.DefaultParams.MicroinsertionCutoff,
	}

	scanner, err := scan.Open(*input, refGenome, log, params)
	if err != nil {
		return err
	}
	defer scanner.Close()

	targets, err := region.ParseSpec(*target, scanner.Header())
	if err != nil {
		return err
	}

	events, err := scanner.Run(context.Background(), targets)
	if err != nil {
		return err
	}
	log.Infof("found %d events", len(events))

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	vw, err := vcfwriter.Create(out, *output, scanner.Header(), time.Now())
	if err != nil {
		return err
	}
	for _, e := range events {
		if err := vw.Write(e); err != nil {
			return err
		}
	}
	return vw.Flush()
}
