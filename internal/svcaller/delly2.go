package svcaller

import (
	"github.com/bihealth/varhab/internal/vcf"
)

// Delly2 implements Support for Delly2 SV calls.
//
// Delly reports paired-end evidence as DR/DV (reference/variant pairs)
// and split-read evidence as RR/RV (reference/variant junction reads).
type Delly2 struct{}

// NewDelly2 creates the Delly2 support.
func NewDelly2() *Delly2 {
	return &Delly2{}
}

func (d *Delly2) Caller() Caller {
	return CallerDelly2
}

// IsCompatible matches headers declaring Delly's read-count FORMAT
// fields (RC, RCL, RCR) alongside variant pair support (DV).
func (d *Delly2) IsCompatible(h *vcf.Header) bool {
	return h.HasFormatID("RC") && h.HasFormatID("RCL") && h.HasFormatID("RCR") && h.HasFormatID("DV")
}

// Version surfaces the SVMETHOD value of the first record (e.g.
// "EMBL.DELLYv0.8.7"). Delly writes no source meta line, so the version
// only exists record-level; the value is opaque provenance text.
func (d *Delly2) Version(p *vcf.Parser) string {
	rec, err := p.Next()
	if err != nil || rec == nil {
		return ""
	}
	method, _ := rec.InfoString("SVMETHOD")
	return method
}

func (d *Delly2) BuildSampleGenotype(rec *vcf.Record, alleleIndex int, sample string) (*SampleGenotype, error) {
	dr := sampleInt(rec, sample, "DR")
	dv := sampleInt(rec, sample, "DV")
	rr := sampleInt(rec, sample, "RR")
	rv := sampleInt(rec, sample, "RV")

	return &SampleGenotype{
		SampleName:              sample,
		Genotype:                genotype(rec, sample),
		Filters:                 sampleFilters(rec, sample),
		GenotypeQuality:         sampleInt(rec, sample, "GQ"),
		PairedEndCoverage:       sumPtr(dr, dv),
		PairedEndVariantSupport: dv,
		SplitReadCoverage:       sumPtr(rr, rv),
		SplitReadVariantSupport: rv,
		CopyNumber:              sampleInt(rec, sample, "CN"),
	}, nil
}
