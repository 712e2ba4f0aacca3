// Package variant provides the canonical variant representation and the
// normalization used to key variants across sources.
package variant

import "fmt"

// Key identifies a single genomic edit as (contig, 0-based start,
// reference allele, alternate allele). Two records from different
// sources describe the same edit iff their normalized Keys are equal.
type Key struct {
	Chrom string
	Pos   int64 // 0-based start; Pos + len(Ref) is the half-open end
	Ref   string
	Alt   string
}

// End returns the 0-based half-open end coordinate.
func (k Key) End() int64 {
	return k.Pos + int64(len(k.Ref))
}

// String renders the key in chrom:pos+1 REF>ALT form for log messages.
func (k Key) String() string {
	return fmt.Sprintf("%s:%d %s>%s", k.Chrom, k.Pos+1, k.Ref, k.Alt)
}

// Reference provides random access to single reference bases.
// Lookups outside the contig indicate a reference that does not match
// the input data and must abort the run.
type Reference interface {
	BaseAt(contig string, pos int64) (byte, error)
}
