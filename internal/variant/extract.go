package variant

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/vcf"
)

// Allele is one alternate allele of a source record, decomposed and
// normalized. Index is the 1-based allele index within the record (the
// reference allele is index 0).
type Allele struct {
	Index int
	Key   Key
}

// Extractor decomposes multi-allelic records into normalized per-allele
// keys in the insertion-preserving form matching the persisted schema.
type Extractor struct {
	norm         *Normalizer
	maxAlleleLen int
	logger       *zap.Logger
}

// NewExtractor creates an extractor. maxAlleleLen is the widest ref/alt
// the sink's columns accept; longer alleles are skipped, not truncated.
func NewExtractor(norm *Normalizer, maxAlleleLen int) *Extractor {
	return &Extractor{
		norm:         norm,
		maxAlleleLen: maxAlleleLen,
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger for row-level warnings.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Alleles returns one normalized key per alternate allele of rec.
// Oversized alleles are dropped with a warning; the rest of the record
// is still returned. Reference lookup failures are fatal and propagate.
func (e *Extractor) Alleles(rec *vcf.Record) ([]Allele, error) {
	alleles := make([]Allele, 0, len(rec.Alts))
	for i, alt := range rec.Alts {
		raw := Key{
			Chrom: rec.Chrom,
			Pos:   rec.Pos - 1,
			Ref:   rec.Ref,
			Alt:   alt,
		}
		normalized, err := e.norm.NormalizeInsertion(raw)
		if err != nil {
			return nil, err
		}

		if len(normalized.Ref) > e.maxAlleleLen || len(normalized.Alt) > e.maxAlleleLen {
			e.logger.Warn("skipping variant with oversized allele",
				zap.String("chrom", rec.Chrom),
				zap.Int64("pos", rec.Pos),
				zap.Int("ref_len", len(normalized.Ref)),
				zap.Int("alt_len", len(normalized.Alt)))
			continue
		}

		alleles = append(alleles, Allele{Index: i + 1, Key: normalized})
	}
	return alleles, nil
}

// PerAlleleInt resolves a per-allele integer statistic from an INFO
// field. Biallelic records encode the statistic as a bare scalar,
// multi-allelic records as a comma-separated list with one entry per
// alternate allele. alleleIndex is 1-based.
//
// The second return value is false when a multi-allelic list is shorter
// than expected; callers log a warning and use the zero value instead of
// failing the batch.
func PerAlleleInt(rec *vcf.Record, field string, alleleIndex, numAlleles int) (int, bool) {
	value, _ := rec.InfoString(field)

	if numAlleles == 2 {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, true
		}
		return n, true
	}

	if value == "" {
		return 0, false
	}
	entries := strings.Split(value, ",")
	if len(entries) < alleleIndex {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(entries[alleleIndex-1]))
	if err != nil {
		return 0, false
	}
	return n, true
}
