package query

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/namefind/feature"
	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/search"
	"github.com/revelaction/namefind/shape"
	"github.com/revelaction/namefind/storage"
)

const (
	completionThreshold = 2

	// commandPrefix is the Character in the prompt that prefixes a command
	commandPrefix = "/"

	cmdFind   = "/find"
	cmdNames  = "/names"
	cmdShape  = "/shape"
	cmdEvents = "/events"

	// candidate limit per query
	limit = 2000
)

var errQuit = errors.New("quit")

var commands = []prompt.Suggest{
	{Text: cmdFind, Description: "samples containing all tokens"},
	{Text: cmdNames, Description: "samples where a token is part of a name"},
	{Text: cmdShape, Description: "word shape of each token"},
	{Text: cmdEvents, Description: "outcomes and features of an annotated line"},
}

type Handler struct {
	Repo      storage.CorpusReader
	Generator feature.Generator
	Shapes    shape.Classifier
	Renderer  *render.Renderer

	// words offered by the completer
	vocabulary []string
}

func NewHandler(cr storage.CorpusReader, g feature.Generator, r *render.Renderer) *Handler {
	return &Handler{
		Repo:      cr,
		Generator: g,
		Shapes:    shape.Default,
		Renderer:  r,
	}
}

// LoadVocabulary collects the name tokens of every corpus for completion.
func (h *Handler) LoadVocabulary() error {
	list, err := h.Repo.List()
	if err != nil {
		return err
	}

	seen := map[string]struct{}{}
	for _, meta := range list {
		c, err := h.Repo.Read(meta.Id)
		if err != nil {
			return err
		}
		for _, s := range c.Samples {
			for _, name := range s.NameTokens() {
				for _, tok := range name {
					seen[tok] = struct{}{}
				}
			}
		}
	}

	h.vocabulary = make([]string, 0, len(seen))
	for tok := range seen {
		h.vocabulary = append(h.vocabulary, tok)
	}
	sort.Strings(h.vocabulary)
	return nil
}

func (h *Handler) Run() error {

	fmt.Println("🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("namefind query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Println("Format set to: " + h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Println("Prefix set to " + fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		history = append(history, in)

		err := h.Eval(in)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// Eval runs one line of input. A line without a command prefix is a
// sentence whose tokens are printed with their features.
func (h *Handler) Eval(in string) error {
	fields := strings.Fields(in)
	if len(fields) == 0 {
		return nil
	}

	if fields[0] == "quit" {
		return errQuit
	}

	if !strings.HasPrefix(fields[0], commandPrefix) {
		return h.features(fields)
	}

	args := fields[1:]
	switch fields[0] {
	case cmdFind:
		return h.find(args, false)
	case cmdNames:
		return h.find(args, true)
	case cmdShape:
		h.Renderer.Shapes(args, h.Shapes)
		return nil
	case cmdEvents:
		return h.events(strings.Join(args, " "))
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (h *Handler) features(tokens []string) error {
	feats, err := feature.All(h.Generator, tokens)
	if err != nil {
		return err
	}
	h.Renderer.Features(tokens, feats)
	return nil
}

func (h *Handler) events(line string) error {
	s, err := sample.Parse(line)
	if err != nil {
		return err
	}

	evs, err := feature.Events(s, h.Generator)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintln(h.Renderer.W, ev.String())
	}
	return nil
}

func (h *Handler) find(tokens []string, namesOnly bool) error {
	if len(tokens) == 0 {
		return errors.New("no tokens to find")
	}

	srch := search.New(h.Repo)
	if namesOnly {
		srch.NamesOnly()
	}

	var results []*search.Match
	cursor := storage.Cursor(0)
	for len(results) < limit {
		newCursor, err := srch.Samples(tokens, cursor, 500, func(m *search.Match) error {
			results = append(results, m)
			return nil
		})
		if err != nil {
			return err
		}
		if cursor == newCursor {
			break // No more progress
		}
		cursor = newCursor
	}

	h.Renderer.Render(results)
	return nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	befCursor := in.TextBeforeCursor()

	// Only one character in line
	if befCursor == "" {
		return []prompt.Suggest{}
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) == 1 && strings.HasPrefix(tokens[0], commandPrefix) {
		return prompt.FilterHasPrefix(commands, tokens[0], false)
	}

	word := in.GetWordBeforeCursor()
	if len(word) < completionThreshold {
		return []prompt.Suggest{}
	}

	return h.completeWord(word)
}

func (h *Handler) completeWord(word string) []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, tok := range h.vocabulary {
		if strings.HasPrefix(tok, word) {
			s = append(s, prompt.Suggest{Text: tok, Description: "🔖 " + h.Shapes.Classify(tok).String()})
		}
	}
	return s
}

// Words returns the completion vocabulary.
func (h *Handler) Words() []string {
	return h.vocabulary
}
