package svcaller

import (
	"strings"

	"github.com/bihealth/varhab/internal/coverage"
	"github.com/bihealth/varhab/internal/vcf"
)

// DragenCNV implements Support for Illumina DRAGEN CNV calls.
//
// DRAGEN CNV reports the segment mean (SM) as normalized coverage and
// the bin count (BC) as point count, but no mapping quality; that comes
// from a per-sample coverage side-channel supplied at construction.
type DragenCNV struct {
	coverageReaders map[string]*coverage.Reader
}

// NewDragenCNV creates the DRAGEN CNV support. coverageReaders maps
// sample names to their coverage side-channel; samples without a reader
// simply get no average mapping quality.
func NewDragenCNV(coverageReaders map[string]*coverage.Reader) *DragenCNV {
	return &DragenCNV{coverageReaders: coverageReaders}
}

func (d *DragenCNV) Caller() Caller {
	return CallerDragenCNV
}

// IsCompatible matches headers carrying a DRAGENVersion meta line and a
// CNV alternate allele definition.
func (d *DragenCNV) IsCompatible(h *vcf.Header) bool {
	return len(h.MetaLines("##DRAGENVersion=")) > 0 && h.HasAltID("CNV")
}

// Version extracts the quoted Version value of the DRAGENVersion meta
// line, e.g. `SW: 07.021.624.3.10.4, HW: 07.021.624`.
func (d *DragenCNV) Version(p *vcf.Parser) string {
	lines := p.Header().MetaLines("##DRAGENVersion=")
	if len(lines) == 0 {
		return ""
	}
	line := lines[0]
	idx := strings.Index(line, "Version=\"")
	if idx == -1 {
		return ""
	}
	rest := line[idx+len("Version=\""):]
	end := strings.Index(rest, "\"")
	if end == -1 {
		return ""
	}
	return rest[:end]
}

func (d *DragenCNV) BuildSampleGenotype(rec *vcf.Record, alleleIndex int, sample string) (*SampleGenotype, error) {
	gt := &SampleGenotype{
		SampleName:                sample,
		Genotype:                  genotype(rec, sample),
		Filters:                   sampleFilters(rec, sample),
		GenotypeQuality:           sampleInt(rec, sample, "GQ"),
		CopyNumber:                sampleInt(rec, sample, "CN"),
		AverageNormalizedCoverage: sampleFloat(rec, sample, "SM"),
		PointCount:                sampleInt(rec, sample, "BC"),
	}

	// PE holds paired-end support at the segment start and end; the
	// variant support is the start-breakpoint count.
	if pe := sampleIntList(rec, sample, "PE"); len(pe) > 0 {
		gt.PairedEndVariantSupport = intPtr(pe[0])
	}

	if reader, ok := d.coverageReaders[sample]; ok {
		if mq, ok := reader.MedianMappingQuality(rec.Chrom, rec.Pos, rec.End()); ok {
			gt.AverageMappingQuality = floatPtr(mq)
		}
	}

	return gt, nil
}
