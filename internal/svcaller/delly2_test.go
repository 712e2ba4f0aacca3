package svcaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delly2HeadVCF = `##fileformat=VCFv4.2
##FILTER=<ID=LowQual,Description="Poor quality and insufficient number of PEs and SRs.">
##INFO=<ID=SVMETHOD,Number=1,Type=String,Description="Type of approach used to detect SV">
##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the structural variant">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=GQ,Number=1,Type=Integer,Description="Genotype Quality">
##FORMAT=<ID=FT,Number=1,Type=String,Description="Per-sample genotype filter">
##FORMAT=<ID=RC,Number=1,Type=Integer,Description="Raw high-quality read counts for the SV">
##FORMAT=<ID=RCL,Number=1,Type=Integer,Description="Raw high-quality read counts for the left control region">
##FORMAT=<ID=RCR,Number=1,Type=Integer,Description="Raw high-quality read counts for the right control region">
##FORMAT=<ID=CN,Number=1,Type=Integer,Description="Read-depth based copy-number estimate">
##FORMAT=<ID=DR,Number=1,Type=Integer,Description="# high-quality reference pairs">
##FORMAT=<ID=DV,Number=1,Type=Integer,Description="# high-quality variant pairs">
##FORMAT=<ID=RR,Number=1,Type=Integer,Description="# high-quality reference junction reads">
##FORMAT=<ID=RV,Number=1,Type=Integer,Description="# high-quality variant junction reads">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE
1	911640	DEL00000001	T	<DEL>	360	PASS	SVMETHOD=EMBL.DELLYv0.8.7;END=912157	GT:GQ:FT:RC:RCL:RCR:CN:DR:DV:RR:RV	0/1:57:PASS:150:60:70:2:20:5:8:3
`

func TestDelly2_IsCompatible(t *testing.T) {
	p := parseTestVCF(t, delly2HeadVCF)
	defer p.Close()

	d := NewDelly2()
	assert.True(t, d.IsCompatible(p.Header()))

	other := parseTestVCF(t, dragenCnvHeadVCF)
	defer other.Close()
	assert.False(t, d.IsCompatible(other.Header()))
}

func TestDelly2_Version(t *testing.T) {
	p := parseTestVCF(t, delly2HeadVCF)
	defer p.Close()

	assert.Equal(t, "EMBL.DELLYv0.8.7", NewDelly2().Version(p))
}

func TestDelly2_BuildSampleGenotype(t *testing.T) {
	p := parseTestVCF(t, delly2HeadVCF)
	defer p.Close()

	rec, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	g, err := NewDelly2().BuildSampleGenotype(rec, 1, "SAMPLE")
	require.NoError(t, err)

	assert.Equal(t, "SAMPLE", g.SampleName)
	assert.Equal(t, "0/1", g.Genotype)
	assert.Empty(t, g.Filters)
	require.NotNil(t, g.GenotypeQuality)
	assert.Equal(t, 57, *g.GenotypeQuality)
	require.NotNil(t, g.PairedEndCoverage)
	assert.Equal(t, 25, *g.PairedEndCoverage) // DR + DV
	require.NotNil(t, g.PairedEndVariantSupport)
	assert.Equal(t, 5, *g.PairedEndVariantSupport)
	require.NotNil(t, g.SplitReadCoverage)
	assert.Equal(t, 11, *g.SplitReadCoverage) // RR + RV
	require.NotNil(t, g.SplitReadVariantSupport)
	assert.Equal(t, 3, *g.SplitReadVariantSupport)
	require.NotNil(t, g.CopyNumber)
	assert.Equal(t, 2, *g.CopyNumber)

	// Fields Delly never reports stay unset, not zero.
	assert.Nil(t, g.AverageMappingQuality)
	assert.Nil(t, g.AverageNormalizedCoverage)
	assert.Nil(t, g.PointCount)
}
