package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/search"
	"github.com/revelaction/namefind/storage"
)

const batchSize = 500

type FindOptions struct {
	CorpusID  *int
	NamesOnly bool
	Format    string
	NoColor   bool
	NoPrefix  bool
	JSON      bool
	Limit     int
}

func (e *env) findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "find samples containing all tokens",
		ArgsUsage: "TOKEN...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "corpus", Usage: "search only the corpus with this id"},
			&cli.BoolFlag{Name: "names", Usage: "keep only samples where a token is part of a name"},
			&cli.StringFlag{
				Name:  "format",
				Value: render.Defaultformat,
				Usage: "output format: " + strings.Join(render.SupportedFormats(), ", "),
			},
			&cli.BoolFlag{Name: "no-color", Usage: "do not color the output"},
			&cli.BoolFlag{Name: "no-prefix", Usage: "do not prefix samples with corpus and row"},
			&cli.BoolFlag{Name: "json", Usage: "print matches as JSON"},
			&cli.IntFlag{Name: "limit", Value: 2000, Usage: "maximum number of matches"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("find needs at least one token")
			}
			path, err := corpusPath(c)
			if err != nil {
				return err
			}
			repo, err := e.repository(path)
			if err != nil {
				return err
			}

			opts := FindOptions{
				NamesOnly: c.Bool("names"),
				Format:    c.String("format"),
				NoColor:   c.Bool("no-color"),
				NoPrefix:  c.Bool("no-prefix"),
				JSON:      c.Bool("json"),
				Limit:     c.Int("limit"),
			}
			if c.IsSet("corpus") {
				id := c.Int("corpus")
				opts.CorpusID = &id
			}
			return findCommand(repo, opts, c.Args().Slice(), e.ui)
		},
	}
}

func findCommand(repo storage.CorpusReader, opts FindOptions, tokens []string, ui UI) error {
	if !slices.Contains(render.SupportedFormats(), opts.Format) {
		return fmt.Errorf("unsupported format %q", opts.Format)
	}

	srch := search.New(repo)
	if opts.CorpusID != nil {
		srch.WithCorpusID(*opts.CorpusID)
	}
	if opts.NamesOnly {
		srch.NamesOnly()
	}

	var results []*search.Match
	cursor := storage.Cursor(0)
	for opts.Limit <= 0 || len(results) < opts.Limit {
		newCursor, err := srch.Samples(tokens, cursor, batchSize, func(m *search.Match) error {
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

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	var mr render.MatchRenderer
	if opts.JSON {
		mr = render.NewJSONRenderer(ui.Out)
	} else {
		r := render.NewRenderer()
		r.W = ui.Out
		r.HasColor = !opts.NoColor
		r.HasPrefix = !opts.NoPrefix
		r.Format = opts.Format
		mr = r
	}

	mr.Render(results)
	return nil
}
