package feature

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/shape"
)

var appleTokens = []string{"Apple", "Inc", "was", "founded"}

func TestContextGeneratorFirstToken(t *testing.T) {
	g := NewContextGenerator()
	got, err := g.Features(appleTokens, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"def",
		"w=apple", "wf=ic", "w&wf=apple,ic",
		"df=it",
		"ppw=BOS",
		"pw=BOS", "pw=BOS,w=apple", "pwf=BOS,wfic",
		"nw=inc", "nwf=ic", "nw&f=inc,ic", "w=apple,nw=inc", "wf=ic,nwf=ic",
		"nnw=was", "nnwf=lc", "nnw&f=was,lc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Features(0) =\n%v\nwant\n%v", got, want)
	}
}

func TestContextGeneratorMiddleToken(t *testing.T) {
	g := NewContextGenerator()
	got, err := g.Features(appleTokens, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"def",
		"w=was", "wf=lc", "w&wf=was,lc",
		"pw=apple", "ppwf=ic", "ppw&f=apple,ic",
		"pw=inc", "pwf=ic", "pw&f=inc,ic", "pw=inc,w=was", "pwf=ic,wf=lc",
		"nw=founded", "nwf=lc", "nw&f=founded,lc", "w=was,nw=founded", "wf=lc,nwf=lc",
		"nnw=EOS",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Features(2) =\n%v\nwant\n%v", got, want)
	}
}

func TestContextGeneratorSingleToken(t *testing.T) {
	g := NewContextGenerator()
	got, err := g.Features([]string{"IBM"}, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"def",
		"w=ibm", "wf=ac", "w&wf=ibm,ac",
		"df=it",
		"ppw=BOS",
		"pw=BOS", "pw=BOS,w=ibm", "pwf=BOS,wfac",
		"nw=EOS", "w=ibm,nw=EOS", "wf=ac,nw=EOS",
		"nnw=EOS",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Features() =\n%v\nwant\n%v", got, want)
	}
}

func TestContextGeneratorOutOfRange(t *testing.T) {
	g := NewContextGenerator()
	for _, idx := range []int{-1, 4, 100} {
		if _, err := g.Features(appleTokens, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Features(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if _, err := g.Features(nil, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Features on empty sentence error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestContextGeneratorDoesNotModifyTokens(t *testing.T) {
	tokens := []string{"The", "USA", "in", "1999"}
	orig := append([]string{}, tokens...)
	g := NewContextGenerator()
	for i := range tokens {
		if _, err := g.Features(tokens, i); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(tokens, orig) {
		t.Errorf("tokens modified: %v", tokens)
	}
}

func TestContextGeneratorCachedShapes(t *testing.T) {
	cached, err := shape.NewCachedClassifier(8)
	if err != nil {
		t.Fatal(err)
	}
	plain := NewContextGenerator()
	withCache := &ContextGenerator{Shapes: cached}

	tokens := []string{"On", "12/05", "IBM", "sold", "3,000", "units", "."}
	for i := range tokens {
		a, _ := plain.Features(tokens, i)
		b, _ := withCache.Features(tokens, i)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("cached features differ at %d:\n%v\n%v", i, a, b)
		}
	}
}

func TestTokenClassGenerator(t *testing.T) {
	g := &TokenClassGenerator{}
	got, err := g.Features(appleTokens, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"wc=ic"}) {
		t.Errorf("Features() = %v", got)
	}
}

func TestSentenceGenerator(t *testing.T) {
	g := SentenceGenerator{}
	tests := []struct {
		tokens []string
		index  int
		want   []string
	}{
		{appleTokens, 0, []string{"S=begin"}},
		{appleTokens, 1, nil},
		{appleTokens, 3, []string{"S=end"}},
		{[]string{"Hi"}, 0, []string{"S=begin", "S=end"}},
	}
	for _, tt := range tests {
		got, err := g.Features(tt.tokens, tt.index)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Features(%v, %d) = %v, want %v", tt.tokens, tt.index, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	agg := Aggregate{&TokenClassGenerator{}, SentenceGenerator{}}
	got, err := agg.Features([]string{"Hi"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"wc=ic", "S=begin", "S=end"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Features() = %v, want %v", got, want)
	}

	if _, err := agg.Features([]string{"Hi"}, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAll(t *testing.T) {
	all, err := All(SentenceGenerator{}, appleTokens)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(appleTokens) {
		t.Fatalf("expected %d feature sets, got %d", len(appleTokens), len(all))
	}
}

func TestEvents(t *testing.T) {
	s, err := sample.Parse("<START> Apple Inc <END> was founded by <START> Jobs <END>")
	if err != nil {
		t.Fatal(err)
	}

	events, err := Events(s, SentenceGenerator{})
	if err != nil {
		t.Fatal(err)
	}

	wantOutcomes := []string{Start, Cont, Other, Other, Other, Start}
	if len(events) != len(wantOutcomes) {
		t.Fatalf("expected %d events, got %d", len(wantOutcomes), len(events))
	}
	for i, ev := range events {
		if ev.Outcome != wantOutcomes[i] {
			t.Errorf("event %d outcome = %s, want %s", i, ev.Outcome, wantOutcomes[i])
		}
	}

	if got := events[0].String(); got != "S=begin start" {
		t.Errorf("events[0].String() = %q", got)
	}
	if got := events[5].String(); got != "S=end start" {
		t.Errorf("events[5].String() = %q", got)
	}
	if got := events[2].String(); got != "other" {
		t.Errorf("events[2].String() = %q", got)
	}
}

func TestEventsAdditionalContext(t *testing.T) {
	s := sample.Sample{
		Tokens:            []string{"a", "b"},
		AdditionalContext: [][]string{{"doc=news"}, {"doc=news"}},
	}
	events, err := Events(s, &TokenClassGenerator{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"wc=lc", "doc=news"}
	if !reflect.DeepEqual(events[1].Context, want) {
		t.Errorf("context = %v, want %v", events[1].Context, want)
	}
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	content := "generators: [context, tokenclass, sentence]\ncache_size: 100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.CacheSize != 100 || len(c.Generators) != 3 {
		t.Fatalf("unexpected config %+v", c)
	}

	g, err := c.Build()
	if err != nil {
		t.Fatal(err)
	}
	feats, err := g.Features([]string{"Hi"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	n := len(feats)
	if feats[n-3] != "wc=ic" || feats[n-2] != "S=begin" || feats[n-1] != "S=end" {
		t.Errorf("unexpected tail of features: %v", feats[n-3:])
	}
}

func TestConfigDefaultsAndErrors(t *testing.T) {
	g, err := DefaultConfig().Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.(*ContextGenerator); !ok {
		t.Errorf("default generator is %T, want *ContextGenerator", g)
	}

	if _, err := (Config{Generators: []string{"bogus"}}).Build(); err == nil {
		t.Errorf("expected error for unknown generator")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("cache_size: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.Generators, []string{NameContext}) {
		t.Errorf("expected default generators, got %v", c.Generators)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
