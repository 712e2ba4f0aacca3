package svcaller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bihealth/varhab/internal/coverage"
)

const dragenCnvHeadVCF = `##fileformat=VCFv4.2
##source=DRAGEN_CNV
##DRAGENVersion=<ID=dragen,Version="SW: 07.021.624.3.10.4, HW: 07.021.624">
##ALT=<ID=CNV,Description="Copy number variant region">
##ALT=<ID=DEL,Description="Deletion relative to the reference">
##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=SM,Number=1,Type=Float,Description="Linear copy ratio of the segment mean">
##FORMAT=<ID=CN,Number=1,Type=Integer,Description="Estimated copy number">
##FORMAT=<ID=BC,Number=1,Type=Integer,Description="Number of bins in the region">
##FORMAT=<ID=PE,Number=2,Type=Integer,Description="Number of improperly paired end reads at start and stop breakpoints">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE
1	869579	DRAGEN:LOSS:1:869579-870577	N	<DEL>	24	PASS	SVTYPE=CNV;END=870577;REFLEN=999	GT:SM:CN:BC:PE	0/1:0.321909:1:1:2,2
`

const coverageVCF = `##fileformat=VCFv4.2
##FORMAT=<ID=CV,Number=1,Type=Float,Description="Normalized coverage in window">
##FORMAT=<ID=MQ,Number=1,Type=Float,Description="Average mapping quality in window">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE
1	869001	.	N	.	.	.	END=869600	CV:MQ	0.33:40
1	869601	.	N	.	.	.	END=870000	CV:MQ	0.31:40
1	870001	.	N	.	.	.	END=870500	CV:MQ	0.35:42
`

func writeCoverageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SAMPLE.cov.vcf")
	require.NoError(t, os.WriteFile(path, []byte(coverageVCF), 0644))
	return path
}

func newDragenCNVWithCoverage(t *testing.T) *DragenCNV {
	t.Helper()
	reader, err := coverage.NewReader(writeCoverageFile(t))
	require.NoError(t, err)
	return NewDragenCNV(map[string]*coverage.Reader{"SAMPLE": reader})
}

func TestDragenCNV_IsCompatible(t *testing.T) {
	d := newDragenCNVWithCoverage(t)

	p := parseTestVCF(t, dragenCnvHeadVCF)
	defer p.Close()
	assert.True(t, d.IsCompatible(p.Header()))

	other := parseTestVCF(t, delly2HeadVCF)
	defer other.Close()
	assert.False(t, d.IsCompatible(other.Header()))
}

func TestDragenCNV_Version(t *testing.T) {
	d := newDragenCNVWithCoverage(t)

	p := parseTestVCF(t, dragenCnvHeadVCF)
	defer p.Close()

	assert.Equal(t, "SW: 07.021.624.3.10.4, HW: 07.021.624", d.Version(p))
}

func TestDragenCNV_BuildSampleGenotype(t *testing.T) {
	d := newDragenCNVWithCoverage(t)

	p := parseTestVCF(t, dragenCnvHeadVCF)
	defer p.Close()

	rec, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	g, err := d.BuildSampleGenotype(rec, 1, "SAMPLE")
	require.NoError(t, err)

	assert.Equal(t, "SAMPLE", g.SampleName)
	assert.Equal(t, "0/1", g.Genotype)
	assert.Empty(t, g.Filters)
	require.NotNil(t, g.AverageNormalizedCoverage)
	assert.InDelta(t, 0.321909, *g.AverageNormalizedCoverage, 1e-9)
	require.NotNil(t, g.PointCount)
	assert.Equal(t, 1, *g.PointCount)
	require.NotNil(t, g.CopyNumber)
	assert.Equal(t, 1, *g.CopyNumber)
	require.NotNil(t, g.PairedEndVariantSupport)
	assert.Equal(t, 2, *g.PairedEndVariantSupport)
	// Median mapping quality over the overlapped coverage windows.
	require.NotNil(t, g.AverageMappingQuality)
	assert.InDelta(t, 40, *g.AverageMappingQuality, 1e-9)

	// Split-read evidence is not part of the DRAGEN CNV dialect.
	assert.Nil(t, g.SplitReadCoverage)
	assert.Nil(t, g.SplitReadVariantSupport)
}

func TestDragenCNV_BuildSampleGenotypeWithoutCoverage(t *testing.T) {
	d := NewDragenCNV(nil)

	p := parseTestVCF(t, dragenCnvHeadVCF)
	defer p.Close()

	rec, err := p.Next()
	require.NoError(t, err)

	g, err := d.BuildSampleGenotype(rec, 1, "SAMPLE")
	require.NoError(t, err)
	assert.Nil(t, g.AverageMappingQuality)
}
