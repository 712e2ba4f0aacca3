// Package fasta provides random access into reference genome sequences.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reference holds reference sequences indexed by contig name.
// Sequences are loaded fully into memory; lookups never touch disk.
type Reference struct {
	path      string
	sequences map[string]string // contig -> sequence
}

// Open loads a FASTA file and returns a Reference for base lookups.
// Supports both plain and gzipped (.gz) files.
func Open(path string) (*Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	r := &Reference{
		path:      path,
		sequences: make(map[string]string),
	}
	if err := r.parseFASTA(reader); err != nil {
		return nil, err
	}
	if len(r.sequences) == 0 {
		return nil, fmt.Errorf("no sequences found in %s", path)
	}

	return r, nil
}

// NewFromSequences builds a Reference from in-memory sequences.
// Intended for tests and small fixtures.
func NewFromSequences(sequences map[string]string) *Reference {
	seqs := make(map[string]string, len(sequences))
	for contig, seq := range sequences {
		seqs[contig] = strings.ToUpper(seq)
	}
	return &Reference{sequences: seqs}
}

// parseFASTA parses FASTA content into the contig map.
func (r *Reference) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var currentContig string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			if currentContig != "" {
				r.sequences[currentContig] = currentSeq.String()
			}
			currentContig = parseContigName(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
		}
	}

	if currentContig != "" {
		r.sequences[currentContig] = currentSeq.String()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}

	return nil
}

// parseContigName extracts the contig name from a FASTA header line.
// The name is the first whitespace-delimited token after ">".
func parseContigName(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		return header[:idx]
	}
	return header
}

// BaseAt returns the reference base at a 0-based position.
// An unknown contig or out-of-range position is an error; both indicate a
// reference that does not match the input data.
func (r *Reference) BaseAt(contig string, pos int64) (byte, error) {
	seq, ok := r.sequences[contig]
	if !ok {
		return 0, fmt.Errorf("contig %q not found in reference", contig)
	}
	if pos < 0 || pos >= int64(len(seq)) {
		return 0, fmt.Errorf("position %d out of range for contig %q (length %d)", pos, contig, len(seq))
	}
	return seq[pos], nil
}

// ContigLength returns the length of a contig, or 0 if unknown.
func (r *Reference) ContigLength(contig string) int64 {
	return int64(len(r.sequences[contig]))
}

// ContigCount returns the number of loaded contigs.
func (r *Reference) ContigCount() int {
	return len(r.sequences)
}
