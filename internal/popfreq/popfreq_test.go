package popfreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bihealth/varhab/internal/vcf"
)

func TestPopmaxAF_TakesMaximumAcrossPops(t *testing.T) {
	agg := NewAggregator([]string{"AFR", "AMR", "EAS"})

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T"},
		Info: map[string]interface{}{
			"AC_AFR": "10", "AN_AFR": "100", // 0.10
			"AC_AMR": "50", "AN_AMR": "200", // 0.25
			"AC_EAS": "1", "AN_EAS": "1000", // 0.001
		},
	}

	assert.InDelta(t, 0.25, agg.PopmaxAF(rec, 1), 1e-9)
}

func TestPopmaxAF_ZeroANPopDoesNotChangeResult(t *testing.T) {
	withoutPop := NewAggregator([]string{"AFR", "AMR"})
	withPop := NewAggregator([]string{"AFR", "AMR", "EAS"})

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T"},
		Info: map[string]interface{}{
			"AC_AFR": "10", "AN_AFR": "100",
			"AC_AMR": "50", "AN_AMR": "200",
			"AC_EAS": "999", "AN_EAS": "0",
		},
	}

	assert.Equal(t, withoutPop.PopmaxAF(rec, 1), withPop.PopmaxAF(rec, 1))
}

func TestPopmaxAF_MissingEntrySkippedWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	agg := NewAggregator([]string{"AFR", "AMR"})
	agg.SetLogger(zap.New(core))

	// Multi-allelic record whose AC_AMR list is too short for allele 2:
	// AMR is skipped with a warning, never counted as frequency zero.
	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T", "G"},
		Info: map[string]interface{}{
			"AC_AFR": "10,30", "AN_AFR": "100",
			"AC_AMR": "50", "AN_AMR": "200",
		},
	}

	assert.InDelta(t, 0.30, agg.PopmaxAF(rec, 2), 1e-9)
	assert.Equal(t, 1, logs.FilterMessage("could not update AF popmax").Len())
}

// TestCombinedZygosity_LastPopValueNotMax pins a quirk inherited from
// the ExAC import: the combined AC_Hom field is resolved once per
// subpopulation with the value overwritten each iteration, so the result
// is the plain combined-field entry, not a per-population maximum.
func TestCombinedZygosity_LastPopValueNotMax(t *testing.T) {
	agg := NewAggregator([]string{"AFR", "AMR", "EAS", "FIN", "NFE", "OTH", "SAS"})

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T"},
		Info: map[string]interface{}{
			"AC_Hom": "2",
			// Per-population hom fields exist in the source but must not
			// be consulted.
			"AC_Hom_AFR": "7",
			"AC_Hom_NFE": "9",
		},
	}

	assert.Equal(t, 2, agg.CombinedZygosity(rec, "AC_Hom", 1))
}

func TestCombinedZygosity_MultiAllelicList(t *testing.T) {
	agg := NewAggregator([]string{"AFR", "AMR"})

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T", "G"},
		Info:  map[string]interface{}{"AC_Hom": "2,4"},
	}

	assert.Equal(t, 2, agg.CombinedZygosity(rec, "AC_Hom", 1))
	assert.Equal(t, 4, agg.CombinedZygosity(rec, "AC_Hom", 2))
}

func TestCombinedZygosity_ShortListWarnsPerPop(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	agg := NewAggregator([]string{"AFR", "AMR", "EAS"})
	agg.SetLogger(zap.New(core))

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T", "G", "C"},
		Info:  map[string]interface{}{"AC_Hom": "2,4"},
	}

	assert.Equal(t, 0, agg.CombinedZygosity(rec, "AC_Hom", 3))
	// The redundant per-population loop warns once per label.
	assert.Equal(t, 3, logs.FilterMessage("could not update zygosity count").Len())
}

func TestPerAlleleZygosity(t *testing.T) {
	agg := NewAggregator([]string{"AFR", "AMR", "ASN", "EUR"})

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T", "G"},
		Info:  map[string]interface{}{"Hom": "3,5", "Het": "1,0"},
	}

	assert.Equal(t, 3, agg.PerAlleleZygosity(rec, "Hom", 1))
	assert.Equal(t, 5, agg.PerAlleleZygosity(rec, "Hom", 2))
	assert.Equal(t, 0, agg.PerAlleleZygosity(rec, "Het", 2))
}

func TestPerAlleleZygosity_ShortListWarnsOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	agg := NewAggregator([]string{"AFR"})
	agg.SetLogger(zap.New(core))

	rec := &vcf.Record{
		Chrom: "1",
		Pos:   1000,
		Alts:  []string{"T", "G", "C"},
		Info:  map[string]interface{}{"Hemi": "1"},
	}

	assert.Equal(t, 0, agg.PerAlleleZygosity(rec, "Hemi", 3))
	assert.Equal(t, 1, logs.FilterMessage("could not update zygosity count").Len())
}
