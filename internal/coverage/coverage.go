// Package coverage reads per-sample coverage VCF files used as a
// side-channel by SV callers that do not report normalized coverage
// themselves. Each record is a genome window with FORMAT fields CV
// (normalized coverage) and MQ (average mapping quality).
package coverage

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/bihealth/varhab/internal/vcf"
)

// window is one coverage bin of the input file.
type window struct {
	start          int64 // 1-based inclusive
	end            int64 // 1-based inclusive
	coverage       float64
	mappingQuality float64
	hasCoverage    bool
	hasMappingQual bool
}

// Reader provides region queries over a coverage VCF loaded into memory.
type Reader struct {
	path    string
	sample  string
	windows map[string][]window // contig -> windows in file order
}

// NewReader loads a coverage VCF for one sample.
func NewReader(path string) (*Reader, error) {
	p, err := vcf.NewParser(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage file: %w", err)
	}
	defer p.Close()

	samples := p.SampleNames()
	if len(samples) != 1 {
		return nil, fmt.Errorf("coverage file %s: expected exactly one sample, found %d", path, len(samples))
	}

	r := &Reader{
		path:    path,
		sample:  samples[0],
		windows: make(map[string][]window),
	}

	for {
		rec, err := p.Next()
		if err != nil {
			return nil, fmt.Errorf("read coverage record: %w", err)
		}
		if rec == nil {
			break
		}

		w := window{start: rec.Pos, end: rec.End()}
		if v, ok := rec.SampleField(r.sample, "CV"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				w.coverage = f
				w.hasCoverage = true
			}
		}
		if v, ok := rec.SampleField(r.sample, "MQ"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				w.mappingQuality = f
				w.hasMappingQual = true
			}
		}
		r.windows[rec.Chrom] = append(r.windows[rec.Chrom], w)
	}

	return r, nil
}

// Sample returns the sample name the coverage file was written for.
func (r *Reader) Sample() string {
	return r.sample
}

// MedianCoverage returns the median normalized coverage of the windows
// overlapping the 1-based inclusive region, and whether any window had a
// coverage value.
func (r *Reader) MedianCoverage(contig string, start, end int64) (float64, bool) {
	return r.median(contig, start, end, func(w window) (float64, bool) {
		return w.coverage, w.hasCoverage
	})
}

// MedianMappingQuality returns the median average mapping quality of the
// windows overlapping the 1-based inclusive region.
func (r *Reader) MedianMappingQuality(contig string, start, end int64) (float64, bool) {
	return r.median(contig, start, end, func(w window) (float64, bool) {
		return w.mappingQuality, w.hasMappingQual
	})
}

func (r *Reader) median(contig string, start, end int64, value func(window) (float64, bool)) (float64, bool) {
	var values []float64
	for _, w := range r.windows[contig] {
		if w.end < start || w.start > end {
			continue
		}
		if v, ok := value(w); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}
