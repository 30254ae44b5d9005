package sample

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxLineSize = 1024 * 1024

// Reader reads samples from an annotated corpus, one sample per line.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	// Normalize applies Unicode NFC normalization to every line before
	// parsing.
	Normalize bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next sample. It returns io.EOF when the input is
// exhausted. Parse errors carry the 1-based line number and still wrap
// ErrMalformedAnnotation.
func (r *Reader) Next() (Sample, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Sample{}, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return Sample{}, io.EOF
	}
	r.line++

	text := strings.TrimRight(r.scanner.Text(), "\r")
	if r.Normalize {
		text = norm.NFC.String(text)
	}

	s, err := Parse(text)
	if err != nil {
		return Sample{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return s, nil
}

// SetLine sets the number of lines already consumed, for input whose
// first lines were read by the caller.
func (r *Reader) SetLine(n int) {
	r.line = n
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// ReadAll reads every sample until EOF.
func ReadAll(r io.Reader) ([]Sample, error) {
	sr := NewReader(r)
	var samples []Sample
	for {
		s, err := sr.Next()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
}
