package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCoverageVCF = `##fileformat=VCFv4.2
##INFO=<ID=END,Number=1,Type=Integer,Description="End position">
##FORMAT=<ID=CV,Number=1,Type=Float,Description="Normalized coverage in window">
##FORMAT=<ID=MQ,Number=1,Type=Float,Description="Average mapping quality in window">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NA12878
1	1	.	N	.	.	.	END=1000	CV:MQ	0.50:60
1	1001	.	N	.	.	.	END=2000	CV:MQ	0.30:40
1	2001	.	N	.	.	.	END=3000	CV:MQ	0.40:50
2	1	.	N	.	.	.	END=1000	CV:MQ	1.10:.
`

func writeCoverage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coverage.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewReader(t *testing.T) {
	r, err := NewReader(writeCoverage(t, testCoverageVCF))
	require.NoError(t, err)
	assert.Equal(t, "NA12878", r.Sample())
}

func TestNewReader_MultiSampleFails(t *testing.T) {
	content := `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1	S2
`
	_, err := NewReader(writeCoverage(t, content))
	assert.Error(t, err)
}

func TestMedianCoverage(t *testing.T) {
	r, err := NewReader(writeCoverage(t, testCoverageVCF))
	require.NoError(t, err)

	// Overlapping all three chr1 windows: median of 0.50, 0.30, 0.40.
	v, ok := r.MedianCoverage("1", 1, 3000)
	require.True(t, ok)
	assert.InDelta(t, 0.40, v, 1e-9)

	// A region inside a single window takes that window's value.
	v, ok = r.MedianCoverage("1", 1200, 1400)
	require.True(t, ok)
	assert.InDelta(t, 0.30, v, 1e-9)

	// Even window count averages the middle pair.
	v, ok = r.MedianCoverage("1", 900, 1100)
	require.True(t, ok)
	assert.InDelta(t, 0.40, v, 1e-9)

	_, ok = r.MedianCoverage("1", 5000, 6000)
	assert.False(t, ok)
	_, ok = r.MedianCoverage("X", 1, 1000)
	assert.False(t, ok)
}

func TestMedianMappingQuality(t *testing.T) {
	r, err := NewReader(writeCoverage(t, testCoverageVCF))
	require.NoError(t, err)

	v, ok := r.MedianMappingQuality("1", 1, 3000)
	require.True(t, ok)
	assert.InDelta(t, 50, v, 1e-9)

	// The chr2 window has no MQ value, so the query reports no data even
	// though the window overlaps.
	_, ok = r.MedianMappingQuality("2", 1, 1000)
	assert.False(t, ok)

	v, ok = r.MedianCoverage("2", 1, 1000)
	require.True(t, ok)
	assert.InDelta(t, 1.10, v, 1e-9)
}
