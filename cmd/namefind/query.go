package main

import (
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/query"
	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/storage"
	"github.com/revelaction/namefind/storage/filesystem"
)

type QueryOptions struct {
	ConfigPath string
	NoColor    bool
	NoPrefix   bool
	Format     string
}

func (e *env) queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "interactive shell: features of typed sentences and corpus search",
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{Name: "no-color", Usage: "do not color the output"},
			&cli.BoolFlag{Name: "no-prefix", Usage: "do not prefix samples with corpus and row"},
			&cli.StringFlag{Name: "format", Value: render.Defaultformat, Usage: "initial match format"},
		},
		Action: func(c *cli.Context) error {
			path, err := corpusPath(c)
			if err != nil {
				return err
			}
			repo, err := e.repository(path)
			if err != nil {
				return err
			}

			opts := QueryOptions{
				ConfigPath: c.Path("config"),
				NoColor:    c.Bool("no-color"),
				NoPrefix:   c.Bool("no-prefix"),
				Format:     c.String("format"),
			}
			return queryCommand(repo, opts, e.ui)
		},
	}
}

// Query command
func queryCommand(repo storage.CorpusReader, opts QueryOptions, ui UI) error {

	if fs, ok := repo.(*filesystem.CorpusStore); ok {
		corpora, err := fs.List()
		if err != nil {
			return err
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(corpora) + 1)
		bar.AppendCompleted()
		bar.PrependElapsed()

		var currentName string
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			return currentName
		})

		err = fs.LoadAll(func(total int, name string) {
			currentName = name
			bar.Incr()
		})
		bar.Set(bar.Total)
		uiprogress.Stop()

		if err != nil {
			return err
		}
	}

	g, err := generator(opts.ConfigPath)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor
	r.HasPrefix = !opts.NoPrefix
	r.Format = opts.Format

	// now present the REPL
	h := query.NewHandler(repo, g, r)
	if err := h.LoadVocabulary(); err != nil {
		return err
	}
	return h.Run()
}
