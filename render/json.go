package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/namefind/search"
)

// JSONRenderer writes search results as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes search results as a JSON array.
func (r *JSONRenderer) Render(results []*search.Match) {
	if results == nil {
		results = []*search.Match{}
	}
	json.NewEncoder(r.W).Encode(results)
}

// Value writes any value as one JSON document.
func (r *JSONRenderer) Value(v any) error {
	return json.NewEncoder(r.W).Encode(v)
}

// compile-time interface check
var _ MatchRenderer = (*JSONRenderer)(nil)
