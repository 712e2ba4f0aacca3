package svcaller

import (
	"strings"

	"github.com/bihealth/varhab/internal/vcf"
)

// Manta implements Support for Illumina Manta SV calls.
//
// Manta reports paired-end and split-read evidence as PR and SR, each a
// comma-separated list with one count per allele, reference first.
type Manta struct{}

// NewManta creates the Manta support.
func NewManta() *Manta {
	return &Manta{}
}

func (m *Manta) Caller() Caller {
	return CallerManta
}

// IsCompatible matches headers whose source meta line names Manta's
// candidate generation tool.
func (m *Manta) IsCompatible(h *vcf.Header) bool {
	return strings.Contains(h.SourceLine(), "GenerateSVCandidates")
}

// Version returns the version token of the source meta line, e.g.
// "1.6.0" from "##source=GenerateSVCandidates 1.6.0".
func (m *Manta) Version(p *vcf.Parser) string {
	fields := strings.Fields(p.Header().SourceLine())
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func (m *Manta) BuildSampleGenotype(rec *vcf.Record, alleleIndex int, sample string) (*SampleGenotype, error) {
	gt := &SampleGenotype{
		SampleName:      sample,
		Genotype:        genotype(rec, sample),
		Filters:         sampleFilters(rec, sample),
		GenotypeQuality: sampleInt(rec, sample, "GQ"),
	}

	// PR and SR list the reference count first, then one count per
	// alternate allele.
	if pr := sampleIntList(rec, sample, "PR"); len(pr) > alleleIndex {
		total := 0
		for _, n := range pr {
			total += n
		}
		gt.PairedEndCoverage = intPtr(total)
		gt.PairedEndVariantSupport = intPtr(pr[alleleIndex])
	}
	if sr := sampleIntList(rec, sample, "SR"); len(sr) > alleleIndex {
		total := 0
		for _, n := range sr {
			total += n
		}
		gt.SplitReadCoverage = intPtr(total)
		gt.SplitReadVariantSupport = intPtr(sr[alleleIndex])
	}

	return gt, nil
}
