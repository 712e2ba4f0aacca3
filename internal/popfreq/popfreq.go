// Package popfreq aggregates per-subpopulation allele statistics into
// popmax frequencies and zygosity counts.
package popfreq

import (
	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/variant"
	"github.com/bihealth/varhab/internal/vcf"
)

// Aggregator reduces per-subpopulation INFO statistics of one record
// allele into the numbers persisted per variant.
type Aggregator struct {
	pops   []string
	logger *zap.Logger
}

// NewAggregator creates an aggregator over a fixed set of subpopulation
// labels (e.g. AFR, AMR, EAS for ExAC-style sources).
func NewAggregator(pops []string) *Aggregator {
	return &Aggregator{pops: pops, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-record warnings.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// PopmaxAF computes the maximum allele frequency AC_pop/AN_pop across
// the configured subpopulations for the given 1-based allele index.
// Subpopulations with AN == 0 contribute nothing; a subpopulation with
// AN > 0 but no usable per-allele AC entry is skipped with a warning,
// never treated as frequency zero.
func (a *Aggregator) PopmaxAF(rec *vcf.Record, alleleIndex int) float64 {
	numAlleles := rec.NumAlleles()
	popmax := 0.0
	for _, pop := range a.pops {
		an := rec.InfoInt("AN_"+pop, 0)
		if an <= 0 {
			continue
		}
		ac, ok := variant.PerAlleleInt(rec, "AC_"+pop, alleleIndex, numAlleles)
		if !ok {
			a.logger.Warn("could not update AF popmax",
				zap.String("pop", pop),
				zap.String("chrom", rec.Chrom),
				zap.Int64("pos", rec.Pos),
				zap.Int("allele", alleleIndex))
			continue
		}
		af := float64(ac) / float64(an)
		if af > popmax {
			popmax = af
		}
	}
	return popmax
}

// CombinedZygosity decodes a combined all-populations zygosity field
// (ExAC-style AC_Het/AC_Hom/AC_Hemi). The original importer resolved the
// same combined field once per subpopulation, overwriting the value each
// iteration; the stored number is the combined-field entry itself, never
// a per-population maximum. That loop shape is kept as-is.
func (a *Aggregator) CombinedZygosity(rec *vcf.Record, field string, alleleIndex int) int {
	numAlleles := rec.NumAlleles()
	count := 0
	for range a.pops {
		c, ok := variant.PerAlleleInt(rec, field, alleleIndex, numAlleles)
		if !ok {
			a.logger.Warn("could not update zygosity count",
				zap.String("field", field),
				zap.String("chrom", rec.Chrom),
				zap.Int64("pos", rec.Pos),
				zap.Int("allele", alleleIndex))
			continue
		}
		count = c
	}
	return count
}

// PerAlleleZygosity decodes a per-allele zygosity field (1000
// Genomes-style Het/Hom/Hemi). Short statistic lists fall back to zero
// with a warning; the batch continues.
func (a *Aggregator) PerAlleleZygosity(rec *vcf.Record, field string, alleleIndex int) int {
	count, ok := variant.PerAlleleInt(rec, field, alleleIndex, rec.NumAlleles())
	if !ok {
		a.logger.Warn("could not update zygosity count",
			zap.String("field", field),
			zap.String("chrom", rec.Chrom),
			zap.Int64("pos", rec.Pos),
			zap.Int("allele", alleleIndex))
		return 0
	}
	return count
}
