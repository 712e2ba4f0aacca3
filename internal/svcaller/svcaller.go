// Package svcaller detects which structural-variant caller produced a
// VCF file and extracts a uniform genotype model from the caller's
// dialect of FORMAT and INFO fields.
package svcaller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bihealth/varhab/internal/vcf"
)

// Caller identifies a supported structural-variant caller.
type Caller string

const (
	CallerDragenCNV Caller = "DRAGEN_CNV"
	CallerDelly2    Caller = "DELLY2"
	CallerManta     Caller = "MANTA"
)

// Detection errors. Both are fatal for the run: without a unique caller
// match there is no safe way to interpret the FORMAT fields.
var (
	ErrUnsupportedCaller = errors.New("no supported SV caller matches the VCF header")
	ErrAmbiguousCaller   = errors.New("multiple SV callers match the VCF header")
)

// SampleGenotype is the caller-independent genotype record extracted for
// one sample and one alternate allele. Numeric fields are pointers so a
// field a caller's dialect never reports stays nil and is distinguishable
// from a reported zero.
type SampleGenotype struct {
	SampleName                string
	Genotype                  string   // e.g. "0/1"
	Filters                   []string // empty for PASS
	GenotypeQuality           *int
	PairedEndCoverage         *int
	PairedEndVariantSupport   *int
	SplitReadCoverage         *int
	SplitReadVariantSupport   *int
	AverageMappingQuality     *float64
	CopyNumber                *int
	AverageNormalizedCoverage *float64
	PointCount                *int
}

// Support is implemented once per supported caller.
type Support interface {
	// Caller returns the caller variant this support implements.
	Caller() Caller

	// IsCompatible reports whether the VCF header was written by this
	// caller, based on caller-specific meta lines and FORMAT IDs.
	IsCompatible(h *vcf.Header) bool

	// Version extracts the caller's free-text version string for
	// provenance logging. The format is caller-specific and opaque;
	// callers of this API must not parse it. Returns "" when unknown.
	Version(p *vcf.Parser) string

	// BuildSampleGenotype maps the caller-specific fields of one record
	// into the uniform SampleGenotype for the given sample and 1-based
	// alternate allele index.
	BuildSampleGenotype(rec *vcf.Record, alleleIndex int, sample string) (*SampleGenotype, error)
}

// Registry holds the supported caller implementations and selects the
// one compatible with a given header.
type Registry struct {
	supports []Support
}

// NewRegistry creates a registry over the given caller supports.
func NewRegistry(supports ...Support) *Registry {
	return &Registry{supports: supports}
}

// Detect returns the single Support whose IsCompatible accepts the
// header. No match returns ErrUnsupportedCaller. More than one match is
// a configuration inconsistency: the error names the matching callers
// and no support is returned rather than guessing between them.
func (r *Registry) Detect(h *vcf.Header) (Support, error) {
	var matches []Support
	for _, s := range r.supports {
		if s.IsCompatible(h) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, ErrUnsupportedCaller
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, s := range matches {
			names[i] = string(s.Caller())
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousCaller, strings.Join(names, ", "))
	}
}
