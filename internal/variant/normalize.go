package variant

import "fmt"

// Normalizer canonicalizes variant keys against a reference sequence.
//
// The algorithm follows the vt normalization procedure (Tan et al.,
// "Unified representation of genetic variants", Bioinformatics 2015):
// shift the variant left until the alleles share no trailing base, then
// trim shared leading bases.
type Normalizer struct {
	ref Reference
}

// NewNormalizer creates a normalizer over the given reference.
func NewNormalizer(ref Reference) *Normalizer {
	return &Normalizer{ref: ref}
}

// NormalizeVariant returns the fully canonical form of a variant.
// Shared leading bases are trimmed completely; the result is the form
// used for equality comparison and database keying.
func (n *Normalizer) NormalizeVariant(k Key) (Key, error) {
	shifted, err := n.shiftLeft(k)
	if err != nil {
		return Key{}, err
	}
	return trimBasesLeft(shifted, 0), nil
}

// NormalizeInsertion normalizes a variant but keeps the leftmost shared
// base, so insertions retain an anchoring reference base. This is the
// form persisted to the annotation tables, whose ref and alt columns are
// NOT NULL.
func (n *Normalizer) NormalizeInsertion(k Key) (Key, error) {
	shifted, err := n.shiftLeft(k)
	if err != nil {
		return Key{}, err
	}
	return trimBasesLeft(shifted, 1), nil
}

// shiftLeft trims shared trailing bases and extends empty alleles to the
// left from the reference. Each right-trim shortens the alleles and each
// extension only fires on an empty allele, so the loop terminates after
// O(len(ref)+len(alt)) reference lookups. Both alleles are non-empty on
// exit.
func (n *Normalizer) shiftLeft(k Key) (Key, error) {
	start := k.Pos
	ref := k.Ref
	alt := k.Alt

	anyChange := true
	for anyChange {
		anyChange = false

		// Trim identical right-most nucleotide
		if len(ref) > 0 && len(alt) > 0 && ref[len(ref)-1] == alt[len(alt)-1] {
			ref = ref[:len(ref)-1]
			alt = alt[:len(alt)-1]
			anyChange = true
		}
		// Extend alleles to the left if there is an empty allele
		if len(ref) == 0 || len(alt) == 0 {
			base, err := n.ref.BaseAt(k.Chrom, start-1)
			if err != nil {
				return Key{}, fmt.Errorf("extend variant %s to the left: %w", k, err)
			}
			ref = string(base) + ref
			alt = string(base) + alt
			start--
			anyChange = true
		}
	}

	return Key{Chrom: k.Chrom, Pos: start, Ref: ref, Alt: alt}, nil
}

// trimBasesLeft drops shared leading bases while both alleles stay
// longer than minSize.
func trimBasesLeft(k Key, minSize int) Key {
	start := k.Pos
	ref := k.Ref
	alt := k.Alt

	for len(ref) > minSize && len(alt) > minSize && ref[0] == alt[0] {
		ref = ref[1:]
		alt = alt[1:]
		start++
	}

	return Key{Chrom: k.Chrom, Pos: start, Ref: ref, Alt: alt}
}
