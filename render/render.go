package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/search"
	"github.com/revelaction/namefind/shape"
	"github.com/revelaction/namefind/stat"
)

const (
	partialOffset = 6
	Defaultformat = "all"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"

	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

// MatchRenderer writes search results.
type MatchRenderer interface {
	Render(results []*search.Match)
}

func SupportedFormats() []string {
	return []string{"all", "part", "names", "aggr"}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the sample
	//
	// all: print the whole annotated sample
	// part: print the surrounding of the matches, cut the rest.
	// names: print only the names containing a match
	// aggr: count the matched names over all results
	Format string

	CorpusNames map[int]string
}

var _ MatchRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{
		W:           os.Stdout,
		Format:      Defaultformat,
		CorpusNames: map[int]string{},
	}
}

func (r *Renderer) AddCorpusName(id int, name string) {
	r.CorpusNames[id] = name
}

// Render prints every match in the current Format.
func (r *Renderer) Render(results []*search.Match) {
	aggregated := map[string]int{}

	for _, m := range results {
		prefix := r.prefix(m)

		var text string
		switch r.Format {
		case "part":
			text = r.part(m.Sample, m.Positions)
		case "names":
			text = r.names(m)
		case "aggr":
			for _, n := range m.Names {
				aggregated[strings.Join(m.Sample.Tokens[n.Start:n.End], " ")]++
			}
			continue
		default:
			text = r.annotated(m.Sample, m.Positions)
		}

		fmt.Fprintf(r.W, "%s%s\n", prefix, text)
	}

	if r.Format == "aggr" {
		r.aggr(aggregated)
	}
}

// Sample prints s with its names marked.
func (r *Renderer) Sample(s sample.Sample, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, r.annotated(s, nil))
}

// SampleString returns s with names marked and the tokens at positions
// highlighted.
func (r *Renderer) SampleString(s sample.Sample, positions []int) string {
	return r.annotated(s, positions)
}

// annotated renders names between brackets (colored when HasColor is set)
// and highlights the tokens at positions.
func (r *Renderer) annotated(s sample.Sample, positions []int) string {
	words := make([]string, 0, len(s.Tokens)+2*len(s.Names))
	for i, tok := range s.Tokens {
		w := tok
		if contains(positions, i) && r.HasColor {
			w = Green256 + tok + Off
		}

		for _, n := range s.Names {
			if n.Start == i {
				w = r.open() + w
			}
			if n.End == i+1 {
				w = w + r.close()
			}
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

func (r *Renderer) open() string {
	if r.HasColor {
		return Yellow256 + "[" + Off
	}
	return "["
}

func (r *Renderer) close() string {
	if r.HasColor {
		return Yellow256 + "]" + Off
	}
	return "]"
}

// part renders the window of partialOffset tokens around the matches.
func (r *Renderer) part(s sample.Sample, positions []int) string {
	if len(positions) == 0 {
		return r.annotated(s, positions)
	}

	first, last := positions[0], positions[0]
	for _, p := range positions {
		if p < first {
			first = p
		}
		if p > last {
			last = p
		}
	}

	from := 0
	if first > partialOffset {
		from = first - partialOffset
	}
	to := len(s.Tokens)
	if to-1-last > partialOffset {
		to = last + partialOffset + 1
	}

	// keep names inside the window, clipped to it
	window := sample.Sample{Tokens: s.Tokens[from:to]}
	for _, n := range s.Names {
		if n.End <= from || n.Start >= to {
			continue
		}
		window.Names = append(window.Names, sample.Span{
			Start: max(n.Start, from) - from,
			End:   min(n.End, to) - from,
		})
	}
	shifted := make([]int, 0, len(positions))
	for _, p := range positions {
		shifted = append(shifted, p-from)
	}

	text := r.annotated(window, shifted)
	if from > 0 {
		text = "… " + text
	}
	if to < len(s.Tokens) {
		text += " …"
	}
	return text
}

func (r *Renderer) names(m *search.Match) string {
	parts := make([]string, 0, len(m.Names))
	for _, n := range m.Names {
		parts = append(parts, strings.Join(m.Sample.Tokens[n.Start:n.End], " "))
	}
	return strings.Join(parts, " | ")
}

func (r *Renderer) aggr(counts map[string]int) {
	type entry struct {
		Num  int
		Name string
	}
	sl := make([]entry, 0, len(counts))
	for name, n := range counts {
		sl = append(sl, entry{n, name})
	}

	// first by count, then alphabetically
	sort.Slice(sl, func(i, j int) bool {
		if sl[i].Num != sl[j].Num {
			return sl[i].Num > sl[j].Num
		}
		return sl[i].Name < sl[j].Name
	})

	var prefix string
	for _, e := range sl {
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%5d] ✍  ", e.Num)
		}
		fmt.Fprintf(r.W, "%s%s\n", prefix, e.Name)
	}
}

func (r *Renderer) prefix(m *search.Match) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("[%s %2d %6d] ✍  ", r.title(m), m.CorpusID, m.RowID)
}

func (r *Renderer) title(m *search.Match) string {
	title := m.CorpusTitle
	if title == "" {
		title = r.CorpusNames[m.CorpusID]
	}

	var part string
	if len(title) <= 20 {
		part = fmt.Sprintf("%-20s", title)
	} else {
		part = title[:20]
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// Shapes prints one line per token with its shape code.
func (r *Renderer) Shapes(tokens []string, c shape.Classifier) {
	for i, tok := range tokens {
		fmt.Fprintf(r.W, "%4d %20q %6s\n", i, tok, c.Classify(tok))
	}
}

// Features prints the features of every token, one token per line.
func (r *Renderer) Features(tokens []string, feats [][]string) {
	for i, tok := range tokens {
		w := tok
		if r.HasColor {
			w = Teal + tok + Off
		}
		fmt.Fprintf(r.W, "%4d %s\t%s\n", i, w, strings.Join(feats[i], " "))
	}
}

// Stats prints corpus statistics.
func (r *Renderer) Stats(st stat.Stats) {
	fmt.Fprintf(r.W, "Num samples %d, num documents %d, num tokens per sample %d\n",
		st.NumSamples, st.NumDocuments, st.TokensPerSampleMean)
	fmt.Fprintf(r.W, "Num names %d, num name tokens %d\n", st.NumNames, st.NumNameTokens)

	lengths := make([]int, 0, len(st.NameLengthDis))
	for l := range st.NameLengthDis {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	for _, l := range lengths {
		fmt.Fprintf(r.W, "  name length %2d: %d\n", l, st.NameLengthDis[l])
	}

	for _, tag := range shape.Tags() {
		if n := st.NameShapeDis[tag]; n > 0 {
			fmt.Fprintf(r.W, "  name shape %5s: %d\n", tag, n)
		}
	}
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}
	r.Format = supported[0]
}

func (r *Renderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}

func contains(positions []int, i int) bool {
	for _, p := range positions {
		if p == i {
			return true
		}
	}
	return false
}
