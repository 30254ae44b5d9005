package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/stat"
	"github.com/revelaction/namefind/storage"
)

type StatOptions struct {
	// nil = all corpora
	CorpusID *int
}

func (e *env) statCommand() *cli.Command {
	return &cli.Command{
		Name:  "stat",
		Usage: "print sample, token and name statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "corpus", Usage: "restrict to the corpus with this id"},
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

			var opts StatOptions
			if c.IsSet("corpus") {
				id := c.Int("corpus")
				opts.CorpusID = &id
			}
			return statCommand(repo, opts, e.ui)
		},
	}
}

func statCommand(repo storage.CorpusReader, opts StatOptions, ui UI) error {
	var ids []int
	if opts.CorpusID != nil {
		ids = []int{*opts.CorpusID}
	} else {
		corpora, err := repo.List()
		if err != nil {
			return err
		}
		for _, c := range corpora {
			ids = append(ids, c.Id)
		}
	}

	hdl := stat.NewHandler()
	for _, id := range ids {
		c, err := repo.Read(id)
		if err != nil {
			return err
		}
		hdl.Aggregate(c)
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.Stats(hdl.Get())
	return nil
}
