// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"strconv"
	"strings"
)

// Record represents a single data line from a VCF file.
// Multi-allelic sites keep all alternate alleles; importers decompose
// them per allele.
type Record struct {
	Chrom   string                 // Chromosome name (e.g., "12", "chr12")
	Pos     int64                  // 1-based genomic position
	ID      string                 // Variant identifier (e.g., rs ID)
	Ref     string                 // Reference allele
	Alts    []string               // Alternate alleles
	Qual    float64                // Quality score
	Filter  string                 // Filter status (PASS or filter names)
	Info    map[string]interface{} // INFO field key-value pairs (string or bool flag)
	Format  []string               // FORMAT keys, in file order
	Samples map[string]SampleData  // per-sample FORMAT values keyed by sample name
}

// SampleData holds the FORMAT values for one sample, keyed by FORMAT ID.
type SampleData map[string]string

// NumAlleles returns the total allele count including the reference.
func (r *Record) NumAlleles() int {
	return len(r.Alts) + 1
}

// End returns the 1-based inclusive end position. The INFO END value wins
// when present; otherwise the end is derived from the reference allele.
func (r *Record) End() int64 {
	if v, ok := r.Info["END"]; ok {
		if s, ok := v.(string); ok {
			if end, err := strconv.ParseInt(s, 10, 64); err == nil {
				return end
			}
		}
	}
	return r.Pos + int64(len(r.Ref)) - 1
}

// InfoString returns the raw INFO value for a key, or "" when absent or a
// flag.
func (r *Record) InfoString(key string) (string, bool) {
	v, ok := r.Info[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// InfoInt returns an INFO value parsed as an integer, or def when the key
// is absent or not a single integer.
func (r *Record) InfoInt(key string, def int) int {
	s, ok := r.InfoString(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// FilterSet returns the record filters as a list, empty for PASS or ".".
func (r *Record) FilterSet() []string {
	if r.Filter == "" || r.Filter == "." || r.Filter == "PASS" {
		return []string{}
	}
	return strings.Split(r.Filter, ";")
}

// SampleField returns the FORMAT value of a key for a sample.
// Missing values (".") report as absent.
func (r *Record) SampleField(sample, key string) (string, bool) {
	data, ok := r.Samples[sample]
	if !ok {
		return "", false
	}
	v, ok := data[key]
	if !ok || v == "." || v == "" {
		return "", false
	}
	return v, true
}
