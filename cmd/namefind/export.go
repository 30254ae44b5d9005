package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/namefind/storage/filesystem"
	"github.com/revelaction/namefind/storage/sqlite/zombiezen"
)

type ExportOptions struct {
	From       string
	To         string
	NoProgress bool
}

func (e *env) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export the corpora of a sqlite database to a directory of annotated files",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "from", Required: true, Usage: "sqlite database file"},
			&cli.PathFlag{Name: "to", Required: true, Usage: "target directory"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not show a progress bar"},
		},
		Action: func(c *cli.Context) error {
			opts := ExportOptions{
				From:       c.Path("from"),
				To:         c.Path("to"),
				NoProgress: c.Bool("no-progress"),
			}
			return exportCommand(opts, e.logger, e.ui)
		},
	}
}

func exportCommand(opts ExportOptions, logger *zap.Logger, ui UI) error {
	if _, err := os.Stat(opts.From); err != nil {
		return fmt.Errorf("repository not found: %s", opts.From)
	}

	pool, err := zombiezen.NewPool(opts.From)
	if err != nil {
		return err
	}
	defer pool.Close()
	src := zombiezen.NewCorpusStore(pool)

	// Ensure target directory exists
	if err := os.MkdirAll(opts.To, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	dst, err := filesystem.NewCorpusStore(opts.To, logger)
	if err != nil {
		return err
	}

	corpora, err := src.List()
	if err != nil {
		return err
	}

	bar := newBar(len(corpora), opts.NoProgress)
	defer bar.stop()

	count := 0
	for _, meta := range corpora {
		c, err := src.Read(meta.Id)
		if err != nil {
			return fmt.Errorf("failed to read corpus %s (id %d): %w", meta.Title, meta.Id, err)
		}

		if _, err := dst.Write(c); err != nil {
			return fmt.Errorf("failed to write corpus %s: %w", meta.Title, err)
		}
		logger.Debug("corpus exported", zap.String("title", c.Title), zap.Int("samples", len(c.Samples)))
		count++
		bar.incr()
	}
	bar.stop()

	fmt.Fprintf(ui.Out, "Successfully exported %d corpora from %s to %s\n", count, opts.From, opts.To)
	return nil
}
