package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/storage"
)

func (e *env) lsCommand() *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "list the corpora of the repository",
		Action: func(c *cli.Context) error {
			path, err := corpusPath(c)
			if err != nil {
				return err
			}
			repo, err := e.repository(path)
			if err != nil {
				return err
			}
			return lsCommand(repo, e.ui)
		},
	}
}

func lsCommand(repo storage.CorpusReader, ui UI) error {
	corpora, err := repo.List()
	if err != nil {
		return err
	}

	for _, c := range corpora {
		if len(c.Labels) == 0 {
			fmt.Fprintf(ui.Out, "📖 %d %s\n", c.Id, c.Title)
			continue
		}
		fmt.Fprintf(ui.Out, "📖 %d %s 🏷  %s\n", c.Id, c.Title, strings.Join(c.Labels, ","))
	}

	return nil
}
