package vcf

import "strings"

// Header holds the meta lines and sample names of a VCF file.
type Header struct {
	Lines   []string // all "##" meta lines plus the "#CHROM" line
	Samples []string // sample names from the #CHROM line, if any
}

// MetaLines returns all meta lines starting with the given prefix,
// e.g. "##source=" or "##DRAGENVersion=".
func (h *Header) MetaLines(prefix string) []string {
	var out []string
	for _, line := range h.Lines {
		if strings.HasPrefix(line, prefix) {
			out = append(out, line)
		}
	}
	return out
}

// SourceLine returns the value of the first "##source=" meta line, or "".
func (h *Header) SourceLine() string {
	for _, line := range h.Lines {
		if strings.HasPrefix(line, "##source=") {
			return strings.TrimPrefix(line, "##source=")
		}
	}
	return ""
}

// HasInfoID reports whether an ##INFO line with the given ID exists.
func (h *Header) HasInfoID(id string) bool {
	return h.hasStructuredID("##INFO=", id)
}

// HasFormatID reports whether a ##FORMAT line with the given ID exists.
func (h *Header) HasFormatID(id string) bool {
	return h.hasStructuredID("##FORMAT=", id)
}

// HasAltID reports whether an ##ALT line with the given ID exists.
func (h *Header) HasAltID(id string) bool {
	return h.hasStructuredID("##ALT=", id)
}

func (h *Header) hasStructuredID(prefix, id string) bool {
	needle := "<ID=" + id + ","
	closed := "<ID=" + id + ">"
	for _, line := range h.Lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := line[len(prefix):]
		if strings.HasPrefix(rest, needle) || strings.HasPrefix(rest, closed) {
			return true
		}
	}
	return false
}
