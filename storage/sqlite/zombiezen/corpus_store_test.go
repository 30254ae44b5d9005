package zombiezen

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/storage"
)

func newTestStore(t *testing.T) *CorpusStore {
	t.Helper()
	pool, err := NewPool(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := CreateSchemas(pool, CorpusSchema); err != nil {
		t.Fatal(err)
	}
	return NewCorpusStore(pool)
}

func mustParse(t *testing.T, line string) sample.Sample {
	t.Helper()
	s, err := sample.Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCorpusStoreWriteRead(t *testing.T) {
	store := newTestStore(t)

	s1 := mustParse(t, "<START> John Smith <END> works at <START> IBM <END>")
	s1.AdditionalContext = [][]string{{"d=1"}, {"d=1"}, {"d=1"}, {"d=1"}, {"d=1"}}
	s2 := mustParse(t, "")
	c := sample.Corpus{Title: "news.txt", Labels: []string{"news", "en"}, Samples: []sample.Sample{s1, s2}}

	id, err := store.Write(c)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "news.txt" || !reflect.DeepEqual(got.Labels, c.Labels) {
		t.Errorf("metadata = %+v", got)
	}
	if len(got.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got.Samples))
	}
	if got.Samples[0].String() != s1.String() {
		t.Errorf("sample = %q, want %q", got.Samples[0].String(), s1.String())
	}
	if !reflect.DeepEqual(got.Samples[0].AdditionalContext, s1.AdditionalContext) {
		t.Errorf("additional context = %v", got.Samples[0].AdditionalContext)
	}
	if !got.Samples[1].ClearAdaptiveData {
		t.Errorf("empty sample must clear adaptive data")
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Id != id || list[0].Samples != nil {
		t.Errorf("List() = %+v", list)
	}

	if _, err := store.Read(id + 100); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestCorpusStoreDuplicateTitle(t *testing.T) {
	store := newTestStore(t)
	c := sample.Corpus{Title: "dup.txt", Samples: []sample.Sample{mustParse(t, "a b")}}

	if _, err := store.Write(c); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Write(c); err == nil {
		t.Fatal("expected unique constraint error")
	}

	// the failed write must not leave samples behind
	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 corpus, got %d", len(list))
	}
}

func TestCorpusStoreFindCandidates(t *testing.T) {
	store := newTestStore(t)

	c := sample.Corpus{Title: "a.txt", Samples: []sample.Sample{
		mustParse(t, "<START> John <END> works"),
		mustParse(t, "john sleeps"),
		mustParse(t, "John works late"),
		mustParse(t, "mary works"),
	}}
	if _, err := store.Write(c); err != nil {
		t.Fatal(err)
	}

	var got []storage.SampleResult
	collect := func(r storage.SampleResult) error {
		got = append(got, r)
		return nil
	}

	cursor, err := store.FindCandidates([]string{"JOHN", "Works"}, 0, 1, collect)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Sample.Tokens[0] != "John" || got[0].CorpusTitle != "a.txt" {
		t.Fatalf("first page = %+v", got)
	}

	cursor, err = store.FindCandidates([]string{"JOHN", "Works"}, cursor, 1, collect)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Sample.String() != "John works late" {
		t.Fatalf("second page = %+v", got)
	}

	next, err := store.FindCandidates([]string{"JOHN", "Works"}, cursor, 1, collect)
	if err != nil {
		t.Fatal(err)
	}
	if next != cursor || len(got) != 2 {
		t.Errorf("expected exhausted search")
	}

	if _, err := store.FindCandidates(nil, 0, 10, collect); err != nil {
		t.Errorf("empty token query error = %v", err)
	}
}
