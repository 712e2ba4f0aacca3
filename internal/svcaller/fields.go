package svcaller

import (
	"strconv"
	"strings"

	"github.com/bihealth/varhab/internal/vcf"
)

// sampleInt returns a FORMAT value parsed as an integer, or nil when the
// field is absent or not an integer.
func sampleInt(rec *vcf.Record, sample, key string) *int {
	v, ok := rec.SampleField(sample, key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// sampleFloat returns a FORMAT value parsed as a float, or nil.
func sampleFloat(rec *vcf.Record, sample, key string) *float64 {
	v, ok := rec.SampleField(sample, key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// sampleIntList returns a comma-separated FORMAT value parsed as an
// integer list, or nil when the field is absent or malformed.
func sampleIntList(rec *vcf.Record, sample, key string) []int {
	v, ok := rec.SampleField(sample, key)
	if !ok {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

// sampleFilters returns the per-sample FT filters when present, falling
// back to the record-level FILTER column. PASS maps to an empty list.
func sampleFilters(rec *vcf.Record, sample string) []string {
	if v, ok := rec.SampleField(sample, "FT"); ok {
		if v == "PASS" {
			return []string{}
		}
		return strings.Split(v, ";")
	}
	return rec.FilterSet()
}

// genotype returns the GT value for a sample, "./." when absent.
func genotype(rec *vcf.Record, sample string) string {
	if v, ok := rec.SampleField(sample, "GT"); ok {
		return v
	}
	return "./."
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func sumPtr(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	return intPtr(*a + *b)
}
