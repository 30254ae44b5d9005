package filesystem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/storage"
)

const (
	// Ext is the extension of annotated corpus files.
	Ext = ".txt"

	labelsHeader = "# labels:"
)

// CorpusStore is a directory of annotated corpus files, one sample per
// line. A first line "# labels: a,b" sets the corpus labels.
type CorpusStore struct {
	dir string

	// In-memory cache, indexed by corpus id
	corpora []sample.Corpus
	loaded  []bool

	// Normalize applies NFC normalization while reading.
	Normalize bool

	// SkipMalformed logs and drops malformed lines instead of failing.
	SkipMalformed bool

	logger *zap.Logger
}

var _ storage.CorpusRepository = (*CorpusStore)(nil)

// NewCorpusStore lists the corpus files of dir. Contents are read on demand.
func NewCorpusStore(dir string, logger *zap.Logger) (*CorpusStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != Ext {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)

	corpora := make([]sample.Corpus, 0, len(names))
	for idx, name := range names {
		corpora = append(corpora, sample.Corpus{Id: idx, Title: name})
	}

	return &CorpusStore{
		dir:     dir,
		corpora: corpora,
		loaded:  make([]bool, len(corpora)),
		logger:  logger,
	}, nil
}

// LoadAll reads every corpus into memory. cb is called before each file.
func (h *CorpusStore) LoadAll(cb func(total int, name string)) error {
	total := len(h.corpora)
	for i := range h.corpora {
		if cb != nil {
			cb(total, h.corpora[i].Title)
		}
		if err := h.load(i); err != nil {
			return err
		}
	}
	return nil
}

func (h *CorpusStore) load(id int) error {
	if h.loaded[id] {
		return nil
	}

	c := &h.corpora[id] // pointer to modify in place
	path := filepath.Join(h.dir, c.Title)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	full, err := h.read(f, c.Title)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c.Labels = full.Labels
	c.Samples = full.Samples
	h.loaded[id] = true
	h.logger.Debug("loaded corpus",
		zap.String("title", c.Title),
		zap.Int("samples", len(c.Samples)))
	return nil
}

func (h *CorpusStore) read(r io.Reader, title string) (sample.Corpus, error) {
	br := bufio.NewReader(r)
	c := sample.Corpus{Title: title}

	labels, header, err := readLabels(br)
	if err != nil {
		return c, err
	}
	c.Labels = labels

	sr := sample.NewReader(br)
	sr.Normalize = h.Normalize
	if header {
		sr.SetLine(1)
	}
	for {
		s, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !h.SkipMalformed {
				return c, err
			}
			h.logger.Warn("skipping malformed sample", zap.String("title", title), zap.Error(err))
			continue
		}
		c.Samples = append(c.Samples, s)
	}
	return c, nil
}

// readLabels consumes the optional "# labels:" header line of br.
func readLabels(br *bufio.Reader) (labels []string, header bool, err error) {
	head, err := br.Peek(len(labelsHeader))
	if err != nil || string(head) != labelsHeader {
		return nil, false, nil
	}

	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, false, err
	}
	return splitLabels(strings.TrimPrefix(strings.TrimSpace(line), labelsHeader)), true, nil
}

// peekLabels reads only the header line of a corpus file.
func (h *CorpusStore) peekLabels(title string) ([]string, error) {
	f, err := os.Open(filepath.Join(h.dir, title))
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	labels, _, err := readLabels(bufio.NewReader(f))
	return labels, err
}

func splitLabels(s string) []string {
	var labels []string
	for _, l := range strings.Split(s, ",") {
		l = strings.TrimSpace(l)
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// List returns corpus metadata. Unloaded corpora are read up to their
// labels header only.
func (h *CorpusStore) List() ([]sample.Corpus, error) {
	out := make([]sample.Corpus, len(h.corpora))
	for i, c := range h.corpora {
		labels := c.Labels
		if !h.loaded[i] {
			var err error
			labels, err = h.peekLabels(c.Title)
			if err != nil {
				return nil, err
			}
		}
		out[i] = sample.Corpus{Id: c.Id, Title: c.Title, Labels: labels}
	}
	return out, nil
}

func (h *CorpusStore) Read(id int) (sample.Corpus, error) {
	if id < 0 || id >= len(h.corpora) {
		return sample.Corpus{}, fmt.Errorf("%w: id %d", storage.ErrNotFound, id)
	}
	if err := h.load(id); err != nil {
		return sample.Corpus{}, err
	}
	return h.corpora[id], nil
}

// FindCandidates scans the samples of all corpora in id order. RowIDs are
// 1-based positions in that scan.
func (h *CorpusStore) FindCandidates(tokens []string, after storage.Cursor, limit int, onCandidate func(storage.SampleResult) error) (storage.Cursor, error) {
	if len(tokens) == 0 {
		return after, nil
	}

	want := make([]string, len(tokens))
	for i, t := range tokens {
		want[i] = strings.ToLower(t)
	}

	var rowID int64
	found := 0
	cursor := after
	for id := range h.corpora {
		if err := h.load(id); err != nil {
			return after, err
		}
		c := h.corpora[id]
		for _, s := range c.Samples {
			rowID++
			if storage.Cursor(rowID) <= after {
				continue
			}
			if !containsAll(s.Tokens, want) {
				continue
			}

			if err := onCandidate(storage.SampleResult{
				RowID:       rowID,
				CorpusID:    c.Id,
				CorpusTitle: c.Title,
				Sample:      s,
			}); err != nil {
				return cursor, err
			}
			cursor = storage.Cursor(rowID)
			found++
			if limit > 0 && found >= limit {
				return cursor, nil
			}
		}
	}

	return cursor, nil
}

func containsAll(tokens []string, want []string) bool {
	for _, w := range want {
		ok := false
		for _, t := range tokens {
			if strings.ToLower(t) == w {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Write stores c as <dir>/<title>. A missing extension is added.
func (h *CorpusStore) Write(c sample.Corpus) (int, error) {
	title := c.Title
	if filepath.Ext(title) != Ext {
		title += Ext
	}
	title = filepath.Base(title)

	path := filepath.Join(h.dir, title)
	if err := WriteCorpus(path, c); err != nil {
		return 0, err
	}

	for i, existing := range h.corpora {
		if existing.Title == title {
			h.corpora[i] = sample.Corpus{Id: i, Title: title, Labels: c.Labels, Samples: c.Samples}
			h.loaded[i] = true
			return i, nil
		}
	}

	id := len(h.corpora)
	h.corpora = append(h.corpora, sample.Corpus{Id: id, Title: title, Labels: c.Labels, Samples: c.Samples})
	h.loaded = append(h.loaded, true)
	return id, nil
}

// WriteCorpus writes c in the annotated line format to path.
func WriteCorpus(path string, c sample.Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if len(c.Labels) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelsHeader, strings.Join(c.Labels, ","))
	}
	for _, s := range c.Samples {
		fmt.Fprintln(w, s.String())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadCorpus reads a single corpus file.
func ReadCorpus(path string) (sample.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return sample.Corpus{}, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	h := &CorpusStore{logger: zap.NewNop()}
	return h.read(f, filepath.Base(path))
}
