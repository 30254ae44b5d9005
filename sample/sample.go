package sample

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StartTag opens a name mention in an annotated line.
	StartTag = "<START>"

	// EndTag closes the mention opened by the preceding StartTag.
	EndTag = "<END>"
)

var (
	// ErrMalformedAnnotation is returned for lines whose START/END markers
	// do not pair up.
	ErrMalformedAnnotation = errors.New("malformed annotation")

	// ErrInvalidSpan is returned when spans do not fit the token sequence.
	ErrInvalidSpan = errors.New("invalid span")
)

// Span is a half-open range [Start, End) of token indexes.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Length() int {
	return s.End - s.Start
}

// Contains reports whether token index i lies inside the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Overlaps reports whether both spans share at least one token.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Covers reports whether every token of o lies inside s.
func (s Span) Covers(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End)
}

// Sample is one sentence of a name finder corpus with its name mentions.
type Sample struct {
	Tokens []string `json:"tokens"`

	// Names are ordered by position and do not overlap.
	Names []Span `json:"names"`

	// Optional per token context, e.g. document level features.
	AdditionalContext [][]string `json:"additional_context,omitempty"`

	// ClearAdaptiveData marks a document boundary: the empty line in
	// the corpus.
	ClearAdaptiveData bool `json:"clear_adaptive_data,omitempty"`
}

// NewSample validates names against tokens.
func NewSample(tokens []string, names []Span) (Sample, error) {
	prevEnd := 0
	for i, n := range names {
		if n.Start < 0 || n.Start >= n.End || n.End > len(tokens) {
			return Sample{}, fmt.Errorf("%w: %s for %d tokens", ErrInvalidSpan, n, len(tokens))
		}
		if i > 0 && n.Start < prevEnd {
			return Sample{}, fmt.Errorf("%w: %s overlaps or precedes %s", ErrInvalidSpan, n, names[i-1])
		}
		prevEnd = n.End
	}

	return Sample{
		Tokens:            tokens,
		Names:             names,
		ClearAdaptiveData: len(tokens) == 0,
	}, nil
}

// Parse reads one annotated line: whitespace separated tokens where each
// name mention is enclosed by StartTag and EndTag. Markers do not count as
// tokens.
func Parse(line string) (Sample, error) {
	parts := strings.Fields(line)

	tokens := make([]string, 0, len(parts))
	var names []Span

	start := -1
	for pi, part := range parts {
		switch part {
		case StartTag:
			if start >= 0 {
				return Sample{}, fmt.Errorf("%w: nested %s at position %d", ErrMalformedAnnotation, StartTag, pi)
			}
			start = len(tokens)

		case EndTag:
			if start < 0 {
				return Sample{}, fmt.Errorf("%w: %s without %s at position %d", ErrMalformedAnnotation, EndTag, StartTag, pi)
			}
			if start == len(tokens) {
				return Sample{}, fmt.Errorf("%w: empty name at position %d", ErrMalformedAnnotation, pi)
			}
			names = append(names, Span{Start: start, End: len(tokens)})
			start = -1

		default:
			tokens = append(tokens, part)
		}
	}

	if start >= 0 {
		return Sample{}, fmt.Errorf("%w: %s at token %d is never closed", ErrMalformedAnnotation, StartTag, start)
	}

	return Sample{
		Tokens:            tokens,
		Names:             names,
		ClearAdaptiveData: len(tokens) == 0,
	}, nil
}

// String renders the sample back into the annotated line format. At a
// boundary shared by two names the EndTag of the first precedes the
// StartTag of the second.
func (s Sample) String() string {
	var sb strings.Builder

	write := func(w string) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w)
	}

	for i, tok := range s.Tokens {
		for _, n := range s.Names {
			if n.End == i {
				write(EndTag)
			}
		}
		for _, n := range s.Names {
			if n.Start == i {
				write(StartTag)
			}
		}
		write(tok)
	}

	for _, n := range s.Names {
		if n.End == len(s.Tokens) {
			write(EndTag)
		}
	}

	return sb.String()
}

// NameTokens returns the tokens covered by each name.
func (s Sample) NameTokens() [][]string {
	out := make([][]string, 0, len(s.Names))
	for _, n := range s.Names {
		out = append(out, s.Tokens[n.Start:n.End])
	}
	return out
}

// NameAt returns the name containing token index i.
func (s Sample) NameAt(i int) (Span, bool) {
	for _, n := range s.Names {
		if n.Contains(i) {
			return n, true
		}
	}
	return Span{}, false
}

// Corpus is a titled collection of samples.
type Corpus struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels  []string `json:"labels,omitempty"`
	Samples []Sample `json:"samples,omitempty"`
}

// Library is a collection of Corpus
type Library []Corpus
