package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/namefind/sample"
	"github.com/revelaction/namefind/storage"
)

type CorpusStore struct {
	pool *sqlitex.Pool
}

var _ storage.CorpusRepository = (*CorpusStore)(nil)

func NewCorpusStore(pool *sqlitex.Pool) *CorpusStore {
	return &CorpusStore{pool: pool}
}

func (h *CorpusStore) List() ([]sample.Corpus, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var corpora []sample.Corpus
	err = sqlitex.Execute(conn, "SELECT id, title, labels FROM corpora ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			c := sample.Corpus{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
			}
			labelsStr := stmt.ColumnText(2)
			if labelsStr != "" {
				c.Labels = strings.Split(labelsStr, ",")
			}
			corpora = append(corpora, c)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return corpora, nil
}

func (h *CorpusStore) Read(id int) (sample.Corpus, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sample.Corpus{}, err
	}
	defer h.pool.Put(conn)

	c := sample.Corpus{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels FROM corpora WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			c.Title = stmt.ColumnText(0)
			if labelsStr := stmt.ColumnText(1); labelsStr != "" {
				c.Labels = strings.Split(labelsStr, ",")
			}
			return nil
		},
	})
	if err != nil {
		return sample.Corpus{}, err
	}
	if !found {
		return sample.Corpus{}, fmt.Errorf("%w: id %d", storage.ErrNotFound, id)
	}

	err = sqlitex.Execute(conn, "SELECT data, context FROM samples WHERE corpus_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			s, err := scanSample(stmt, 0, 1)
			if err != nil {
				return err
			}
			c.Samples = append(c.Samples, s)
			return nil
		},
	})
	if err != nil {
		return sample.Corpus{}, err
	}

	return c, nil
}

// scanSample parses the annotated line in column data and the JSON
// additional context in column ctx.
func scanSample(stmt *sqlite.Stmt, data, ctx int) (sample.Sample, error) {
	s, err := sample.Parse(stmt.ColumnText(data))
	if err != nil {
		return sample.Sample{}, err
	}
	if raw := stmt.ColumnText(ctx); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.AdditionalContext); err != nil {
			return sample.Sample{}, fmt.Errorf("JSON decoding error: %w", err)
		}
	}
	return s, nil
}

func (h *CorpusStore) FindCandidates(tokens []string, after storage.Cursor, limit int, onCandidate func(storage.SampleResult) error) (storage.Cursor, error) {
	if len(tokens) == 0 {
		return after, nil
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	// INTERSECT keeps only samples containing ALL tokens, and also
	// guarantees unique rowids.
	var queryBuilder strings.Builder
	var args []any

	for i, tok := range tokens {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT sample_rowid FROM sample_tokens WHERE token = ? AND sample_rowid > ?")
		args = append(args, strings.ToLower(tok), int64(after))
	}
	queryBuilder.WriteString(" ORDER BY 1")
	if limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	var rowIDs []int64
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	if len(rowIDs) == 0 {
		return after, nil
	}

	idStrings := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	query := fmt.Sprintf(`SELECT s.rowid, s.corpus_id, c.title, s.data, s.context
		FROM samples s JOIN corpora c ON s.corpus_id = c.id
		WHERE s.rowid IN (%s) ORDER BY s.rowid`, strings.Join(idStrings, ","))

	newCursor := after
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res := storage.SampleResult{
				RowID:       stmt.ColumnInt64(0),
				CorpusID:    stmt.ColumnInt(1),
				CorpusTitle: stmt.ColumnText(2),
			}
			s, err := scanSample(stmt, 3, 4)
			if err != nil {
				return err
			}
			res.Sample = s

			if err := onCandidate(res); err != nil {
				return err
			}
			newCursor = storage.Cursor(res.RowID)
			return nil
		},
	})
	if err != nil {
		return newCursor, err
	}

	return newCursor, nil
}

// Write inserts the corpus, its samples and their token index in one
// transaction.
func (h *CorpusStore) Write(c sample.Corpus) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(c.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO corpora (title, labels) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{c.Title, labels},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert corpus: %w", err)
	}
	corpusID := conn.LastInsertRowID()

	for _, s := range c.Samples {
		var ctx any
		if len(s.AdditionalContext) > 0 {
			data, marshalErr := json.Marshal(s.AdditionalContext)
			if marshalErr != nil {
				return 0, marshalErr
			}
			ctx = string(data)
		}

		err = sqlitex.Execute(conn, "INSERT INTO samples (corpus_id, data, context) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{corpusID, s.String(), ctx},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert sample: %w", err)
		}
		sampleRowID := conn.LastInsertRowID()

		unique := make(map[string]bool)
		for _, tok := range s.Tokens {
			unique[strings.ToLower(tok)] = true
		}

		for tok := range unique {
			err = sqlitex.Execute(conn, "INSERT INTO sample_tokens (token, sample_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []any{tok, sampleRowID},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert token: %w", err)
			}
		}
	}

	return int(corpusID), nil
}
