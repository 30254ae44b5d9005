package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/revelaction/namefind/storage/filesystem"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp(UI{Out: &out, Err: &errOut}, strings.NewReader(stdin))
	err := app.Run(append([]string{"namefind"}, args...))
	return out.String(), err
}

func corpusDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt": "<START> Apple Inc <END> was founded\n\n<START> Apple <END> sells phones\n",
		"b.txt": "# labels: news\n<START> John Smith <END> bought an apple\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestShapeCommand(t *testing.T) {
	out, err := run(t, "", "shape", "IBM", "1984")
	if err != nil {
		t.Fatal(err)
	}
	want := "   0                \"IBM\"     ac\n   1               \"1984\"     4d\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, err = run(t, "09-96\n", "shape", "--cache", "10")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dd") {
		t.Errorf("stdin tokens not classified: %q", out)
	}
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "", "parse", "<START> John Smith <END> works")
	if err != nil {
		t.Fatal(err)
	}
	if want := "1\t[0..2)\tJohn Smith\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	if _, err := run(t, "ok\n<START> open\n", "parse"); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestFeaturesCommand(t *testing.T) {
	out, err := run(t, "IBM\n", "features", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "   0 IBM\tdef w=ibm wf=ac") {
		t.Errorf("unexpected features %q", out)
	}
}

func TestEventsCommand(t *testing.T) {
	config := filepath.Join(t.TempDir(), "features.yaml")
	if err := os.WriteFile(config, []byte("generators: [sentence]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "<START> IBM <END> rocks\n<START> bad\n", "events", "--config", config, "--skip-malformed")
	if err != nil {
		t.Fatal(err)
	}
	if want := "S=begin start\nS=end other\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	if _, err := run(t, "<START> bad\n", "events", "--config", config); err == nil {
		t.Error("expected malformed line error")
	}
}

func TestLsCommand(t *testing.T) {
	dir := corpusDir(t)
	out, err := run(t, "", "--corpus-path", dir, "ls")
	if err != nil {
		t.Fatal(err)
	}
	want := "📖 0 a.txt\n📖 1 b.txt 🏷  news\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCorpusPathFromEnv(t *testing.T) {
	t.Setenv("NAMEFIND_CORPUS_PATH", corpusDir(t))
	out, err := run(t, "", "stat")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Num names 3, num name tokens 5") {
		t.Errorf("unexpected stats %q", out)
	}

	t.Setenv("NAMEFIND_CORPUS_PATH", "")
	if _, err := run(t, "", "ls"); err == nil || !strings.Contains(err.Error(), "corpus path not set") {
		t.Errorf("expected missing path error, got %v", err)
	}
}

func TestFindCommand(t *testing.T) {
	dir := corpusDir(t)
	out, err := run(t, "", "-c", dir, "find", "--no-color", "--no-prefix", "apple")
	if err != nil {
		t.Fatal(err)
	}
	want := "[Apple Inc] was founded\n[Apple] sells phones\n[John Smith] bought an apple\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, err = run(t, "", "-c", dir, "find", "--no-prefix", "--names", "--format", "names", "apple")
	if err != nil {
		t.Fatal(err)
	}
	if want := "Apple Inc\nApple\n"; out != want {
		t.Errorf("names only: got %q, want %q", out, want)
	}

	if _, err := run(t, "", "-c", dir, "find", "--format", "bogus", "apple"); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestImportExport(t *testing.T) {
	dir := corpusDir(t)
	db := filepath.Join(t.TempDir(), "corpus.db")

	out, err := run(t, "", "import", "--no-progress", "--from", dir, "--to", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Successfully imported 2 corpora") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = run(t, "", "-c", db, "ls")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "b.txt 🏷  news") {
		t.Errorf("unexpected listing %q", out)
	}

	target := filepath.Join(t.TempDir(), "out")
	if _, err := run(t, "", "export", "--no-progress", "--from", db, "--to", target); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.txt", "b.txt"} {
		want, err := filesystem.ReadCorpus(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		got, err := filesystem.ReadCorpus(filepath.Join(target, name))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got.Samples, want.Samples) || !reflect.DeepEqual(got.Labels, want.Labels) {
			t.Errorf("%s: round trip mismatch\ngot  %+v\nwant %+v", name, got, want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "namefind version dev (commit: none)\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBashCommand(t *testing.T) {
	out, err := run(t, "", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "complete -F _namefind_autocomplete namefind") {
		t.Errorf("unexpected script %q", out)
	}
}
