package feature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/revelaction/namefind/shape"
)

// ErrIndexOutOfRange is returned when the requested token index is not
// inside the sentence.
var ErrIndexOutOfRange = errors.New("token index out of range")

// Generator produces the features of the token at index within tokens.
// Implementations must not modify tokens.
type Generator interface {
	Features(tokens []string, index int) ([]string, error)
}

func checkIndex(tokens []string, index int) error {
	if index < 0 || index >= len(tokens) {
		return fmt.Errorf("%w: index %d, sentence length %d", ErrIndexOutOfRange, index, len(tokens))
	}
	return nil
}

// ContextGenerator emits the word and shape features of a ±2 token window
// around the current token, with begin/end of sentence markers where the
// window falls outside the sentence.
type ContextGenerator struct {
	Shapes shape.Classifier
}

var _ Generator = (*ContextGenerator)(nil)

// NewContextGenerator returns a generator using the uncached shape cascade.
func NewContextGenerator() *ContextGenerator {
	return &ContextGenerator{Shapes: shape.Default}
}

// Features returns the context of tokens[i]. The feature names are fixed:
// models trained on them expect exactly these strings, including the
// two-back word reusing the "pw=" prefix and the missing "=" in the
// begin-of-sentence shape conjunction.
func (g *ContextGenerator) Features(tokens []string, i int) ([]string, error) {
	if err := checkIndex(tokens, i); err != nil {
		return nil, err
	}

	feats := make([]string, 0, 24)
	feats = append(feats, "def")

	// current word
	w := strings.ToLower(tokens[i])
	wf := g.shape(tokens[i])
	feats = append(feats, "w="+w, "wf="+wf, "w&wf="+w+","+wf)
	if i == 0 {
		feats = append(feats, "df=it")
	}

	if i-2 >= 0 {
		ppw := strings.ToLower(tokens[i-2])
		ppwf := g.shape(tokens[i-2])
		feats = append(feats, "pw="+ppw, "ppwf="+ppwf, "ppw&f="+ppw+","+ppwf)
	} else {
		feats = append(feats, "ppw=BOS")
	}

	// previous word
	if i == 0 {
		feats = append(feats, "pw=BOS", "pw=BOS,w="+w, "pwf=BOS,wf"+wf)
	} else {
		pw := strings.ToLower(tokens[i-1])
		pwf := g.shape(tokens[i-1])
		feats = append(feats,
			"pw="+pw,
			"pwf="+pwf,
			"pw&f="+pw+","+pwf,
			"pw="+pw+",w="+w,
			"pwf="+pwf+",wf="+wf,
		)
	}

	// next word
	if i+1 >= len(tokens) {
		feats = append(feats, "nw=EOS", "w="+w+",nw=EOS", "wf="+wf+",nw=EOS")
	} else {
		nw := strings.ToLower(tokens[i+1])
		nwf := g.shape(tokens[i+1])
		feats = append(feats,
			"nw="+nw,
			"nwf="+nwf,
			"nw&f="+nw+","+nwf,
			"w="+w+",nw="+nw,
			"wf="+wf+",nwf="+nwf,
		)
	}

	if i+2 >= len(tokens) {
		feats = append(feats, "nnw=EOS")
	} else {
		nnw := strings.ToLower(tokens[i+2])
		nnwf := g.shape(tokens[i+2])
		feats = append(feats, "nnw="+nnw, "nnwf="+nnwf, "nnw&f="+nnw+","+nnwf)
	}

	return feats, nil
}

func (g *ContextGenerator) shape(token string) string {
	if g.Shapes == nil {
		return shape.Classify(token).String()
	}
	return g.Shapes.Classify(token).String()
}

// TokenClassGenerator emits the shape of the current token as "wc=<shape>".
type TokenClassGenerator struct {
	Shapes shape.Classifier
}

var _ Generator = (*TokenClassGenerator)(nil)

func (g *TokenClassGenerator) Features(tokens []string, i int) ([]string, error) {
	if err := checkIndex(tokens, i); err != nil {
		return nil, err
	}
	c := g.Shapes
	if c == nil {
		c = shape.Default
	}
	return []string{"wc=" + c.Classify(tokens[i]).String()}, nil
}

// SentenceGenerator marks the first and last token of a sentence.
type SentenceGenerator struct{}

var _ Generator = SentenceGenerator{}

func (SentenceGenerator) Features(tokens []string, i int) ([]string, error) {
	if err := checkIndex(tokens, i); err != nil {
		return nil, err
	}
	var feats []string
	if i == 0 {
		feats = append(feats, "S=begin")
	}
	if i == len(tokens)-1 {
		feats = append(feats, "S=end")
	}
	return feats, nil
}

// Aggregate concatenates the features of its generators, in order.
type Aggregate []Generator

var _ Generator = Aggregate{}

func (a Aggregate) Features(tokens []string, i int) ([]string, error) {
	if err := checkIndex(tokens, i); err != nil {
		return nil, err
	}
	var feats []string
	for _, g := range a {
		f, err := g.Features(tokens, i)
		if err != nil {
			return nil, err
		}
		feats = append(feats, f...)
	}
	return feats, nil
}

// All returns the features of every token of the sentence.
func All(g Generator, tokens []string) ([][]string, error) {
	out := make([][]string, len(tokens))
	for i := range tokens {
		f, err := g.Features(tokens, i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
