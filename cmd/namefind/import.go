package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/namefind/storage/filesystem"
	"github.com/revelaction/namefind/storage/sqlite/zombiezen"
)

type ImportOptions struct {
	From          string
	To            string
	Normalize     bool
	SkipMalformed bool
	NoProgress    bool
}

func (e *env) importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "import a directory of annotated corpora into a sqlite database",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "from", Required: true, Usage: "corpus directory"},
			&cli.PathFlag{Name: "to", Required: true, Usage: "sqlite database file"},
			&cli.BoolFlag{Name: "skip-malformed", Usage: "drop malformed lines instead of failing"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not show a progress bar"},
			nfcFlag,
		},
		Action: func(c *cli.Context) error {
			opts := ImportOptions{
				From:          c.Path("from"),
				To:            c.Path("to"),
				Normalize:     c.Bool("nfc"),
				SkipMalformed: c.Bool("skip-malformed"),
				NoProgress:    c.Bool("no-progress"),
			}
			return importCommand(opts, e.logger, e.ui)
		},
	}
}

func importCommand(opts ImportOptions, logger *zap.Logger, ui UI) error {
	src, err := filesystem.NewCorpusStore(opts.From, logger)
	if err != nil {
		return err
	}
	src.Normalize = opts.Normalize
	src.SkipMalformed = opts.SkipMalformed

	pool, err := zombiezen.NewPool(opts.To)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := zombiezen.CreateSchemas(pool, zombiezen.CorpusSchema); err != nil {
		return fmt.Errorf("failed to create corpus tables: %w", err)
	}

	dst := zombiezen.NewCorpusStore(pool)

	fmt.Fprintf(ui.Out, "Reading corpora from %s...\n", opts.From)
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
			return fmt.Errorf("failed to read corpus %s: %w", meta.Title, err)
		}

		id, err := dst.Write(c)
		if err != nil {
			return fmt.Errorf("failed to write corpus %s: %w", meta.Title, err)
		}
		logger.Debug("corpus imported", zap.String("title", c.Title), zap.Int("id", id), zap.Int("samples", len(c.Samples)))
		count++
		bar.incr()
	}
	bar.stop()

	fmt.Fprintf(ui.Out, "Successfully imported %d corpora from %s to %s\n", count, opts.From, opts.To)
	return nil
}

// progress wraps a uiprogress bar that can be disabled.
type progress struct {
	bar     *uiprogress.Bar
	stopped bool
}

func newBar(total int, disabled bool) *progress {
	if disabled || total == 0 {
		return &progress{stopped: true}
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()
	return &progress{bar: bar}
}

func (p *progress) incr() {
	if p.bar != nil {
		p.bar.Incr()
	}
}

func (p *progress) stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	uiprogress.Stop()
}
