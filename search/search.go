package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/storage"
)

// Match is a sample containing all query tokens.
type Match struct {
	RowID       int64  `json:"rowid"`
	CorpusID    int    `json:"corpus_id"`
	CorpusTitle string `json:"corpus_title"`

	Sample sample.Sample `json:"sample"`

	// Token indexes of the sample equal (case-insensitively) to a query
	// token.
	Positions []int `json:"positions"`

	// Names of the sample containing at least one position.
	Names []sample.Span `json:"names,omitempty"`
}

// InName reports whether any matched token lies inside a name.
func (m *Match) InName() bool {
	return len(m.Names) > 0
}

// Search orchestrates the strategy selection for finding samples that
// contain query tokens in a corpus repository.
type Search struct {
	repo     storage.CorpusReader
	corpusID *int

	namesOnly bool
}

// New creates a new Search instance over the given repository.
func New(cr storage.CorpusReader) *Search {
	return &Search{repo: cr}
}

// WithCorpusID restricts the search to a single corpus. The corpus is then
// scanned directly instead of using the token index.
func (s *Search) WithCorpusID(id int) *Search {
	s.corpusID = &id
	return s
}

// NamesOnly keeps only matches where a query token is part of a name.
func (s *Search) NamesOnly() *Search {
	s.namesOnly = true
	return s
}

// Samples calls onMatch for every matching sample, handling pagination.
func (s *Search) Samples(tokens []string, cursor storage.Cursor, limit int, onMatch func(*Match) error) (storage.Cursor, error) {
	if len(tokens) == 0 {
		return cursor, errors.New("search needs at least one token")
	}

	// Strategy 1: Single corpus (No Index)
	if s.corpusID != nil {
		c, err := s.repo.Read(*s.corpusID)
		if err != nil {
			return cursor, err
		}

		for i, smp := range c.Samples {
			m, ok := s.match(smp, tokens)
			if !ok {
				continue
			}
			m.RowID = int64(i + 1)
			m.CorpusID = c.Id
			m.CorpusTitle = c.Title
			if err := onMatch(m); err != nil {
				return cursor, err
			}
		}
		return cursor, nil
	}

	// Strategy 2: Find candidates (indexed search)
	return s.repo.FindCandidates(tokens, cursor, limit, func(res storage.SampleResult) error {
		m, ok := s.match(res.Sample, tokens)
		if !ok {
			return nil
		}
		m.RowID = res.RowID
		m.CorpusID = res.CorpusID
		m.CorpusTitle = res.CorpusTitle
		return onMatch(m)
	})
}

func (s *Search) match(smp sample.Sample, tokens []string) (*Match, bool) {
	m, ok := MatchSample(smp, tokens)
	if !ok {
		return nil, false
	}
	if s.namesOnly && !m.InName() {
		return nil, false
	}
	return m, true
}

// MatchSample returns the positions of tokens in smp. It fails unless every
// query token occurs at least once. Tokens are compared lowercased, the
// same rule the stores index with.
func MatchSample(smp sample.Sample, tokens []string) (*Match, bool) {
	m := &Match{Sample: smp}
	for _, q := range tokens {
		q = strings.ToLower(q)
		found := false
		for i, tok := range smp.Tokens {
			if strings.ToLower(tok) == q {
				m.Positions = append(m.Positions, i)
				found = true
			}
		}
		if !found {
			return nil, false
		}
	}
	sort.Ints(m.Positions)

	for _, n := range smp.Names {
		for _, p := range m.Positions {
			if n.Contains(p) {
				m.Names = append(m.Names, n)
				break
			}
		}
	}
	return m, true
}
