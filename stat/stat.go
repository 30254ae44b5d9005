package stat

import (
	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/shape"
)

type Handler struct {
	stats Stats

	shapes shape.Classifier
}

type Stats struct {
	NumSamples          int
	NumTokens           int
	NumNames            int
	NumNameTokens       int
	TokensPerSampleMean int

	// NumDocuments counts document boundaries (empty lines).
	NumDocuments int

	// name length in tokens -> count
	NameLengthDis map[int]int

	// shape of tokens inside names -> count
	NameShapeDis map[shape.Tag]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		NameLengthDis: map[int]int{},
		NameShapeDis:  map[shape.Tag]int{},
	}
	return &Handler{
		stats:  stats,
		shapes: shape.Default,
	}
}

// Aggregate adds the samples of c to the statistics. It can be called for
// several corpora.
func (h *Handler) Aggregate(c sample.Corpus) {
	for _, s := range c.Samples {
		if s.ClearAdaptiveData {
			h.stats.NumDocuments++
			continue
		}

		h.stats.NumSamples++
		h.stats.NumTokens += len(s.Tokens)
		h.stats.NumNames += len(s.Names)

		for _, n := range s.Names {
			h.stats.NameLengthDis[n.Length()]++
			h.stats.NumNameTokens += n.Length()
			for _, tok := range s.Tokens[n.Start:n.End] {
				h.stats.NameShapeDis[h.shapes.Classify(tok)]++
			}
		}
	}

	if h.stats.NumSamples > 0 {
		h.stats.TokensPerSampleMean = h.stats.NumTokens / h.stats.NumSamples
	}
}
