package feature

import (
	"strings"

	"github.com/revelaction/namefind/sample"
)

// Outcomes of a name finder event.
const (
	Start = "start"
	Cont  = "cont"
	Other = "other"
)

// Event is one training example: the context of a token and its outcome.
type Event struct {
	Outcome string   `json:"outcome"`
	Context []string `json:"context"`
}

// String renders the event as a maxent training line, context predicates
// first and the outcome last.
func (e Event) String() string {
	return strings.Join(append(append([]string{}, e.Context...), e.Outcome), " ")
}

// Outcomes labels every token of s as the first token of a name, a
// continuation of a name, or outside any name.
func Outcomes(s sample.Sample) []string {
	outcomes := make([]string, len(s.Tokens))
	for i := range outcomes {
		outcomes[i] = Other
	}
	for _, n := range s.Names {
		for i := n.Start; i < n.End && i < len(outcomes); i++ {
			if i == n.Start {
				outcomes[i] = Start
				continue
			}
			outcomes[i] = Cont
		}
	}
	return outcomes
}

// Events returns one event per token of s.
func Events(s sample.Sample, g Generator) ([]Event, error) {
	outcomes := Outcomes(s)
	events := make([]Event, 0, len(s.Tokens))
	for i := range s.Tokens {
		ctx, err := g.Features(s.Tokens, i)
		if err != nil {
			return nil, err
		}
		if i < len(s.AdditionalContext) {
			ctx = append(ctx, s.AdditionalContext[i]...)
		}
		events = append(events, Event{Outcome: outcomes[i], Context: ctx})
	}
	return events, nil
}
