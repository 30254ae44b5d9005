package storage

import (
	"errors"

	"github.com/revelaction/namefind/sample"
)

var (
	// ErrNotFound is returned when a corpus id does not exist.
	ErrNotFound = errors.New("corpus not found")

	// ErrReadOnly is returned by repositories that can not be written.
	ErrReadOnly = errors.New("read-only storage")
)

// Cursor for paginated token-based queries
type Cursor int64

// SampleResult is a sample found by FindCandidates.
type SampleResult struct {
	RowID       int64
	CorpusID    int
	CorpusTitle string
	Sample      sample.Sample
}

// CorpusReader defines read operations for corpus storage
type CorpusReader interface {
	// List returns the metadata (Id, Title, Labels) of all corpora.
	// Samples are not loaded.
	List() ([]sample.Corpus, error)

	// Read returns a corpus with all its samples by ID
	Read(id int) (sample.Corpus, error)

	// FindCandidates returns samples containing ALL given tokens
	// (compared lowercased), resuming after the given cursor. It calls
	// onCandidate for each result and returns the new cursor.
	FindCandidates(tokens []string, after Cursor, limit int, onCandidate func(SampleResult) error) (Cursor, error)
}

// CorpusWriter defines write operations for corpus storage
type CorpusWriter interface {
	// Write persists a corpus and its samples, returning its id.
	Write(c sample.Corpus) (int, error)
}

// CorpusRepository combines read and write operations
type CorpusRepository interface {
	CorpusReader
	CorpusWriter
}
