package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

// env is the state shared by the commands of one run.
type env struct {
	ui     UI
	in     io.Reader
	logger *zap.Logger
	pool   *Pool
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui, os.Stdin).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "namefind: %v\n", err)
}

func newApp(ui UI, in io.Reader) *cli.App {
	e := &env{ui: ui, in: in, logger: zap.NewNop(), pool: &Pool{}}

	return &cli.App{
		Name:                 "namefind",
		Usage:                "inspect name finder corpora, word shapes and context features",
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		Reader:               in,
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "corpus-path",
				Aliases: []string{"c"},
				Usage:   "corpus directory or sqlite database",
				EnvVars: []string{"NAMEFIND_CORPUS_PATH"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug information to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool("verbose") {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			e.logger = logger
			return nil
		},
		After: func(c *cli.Context) error {
			_ = e.logger.Sync()
			return e.pool.Close()
		},
		Commands: []*cli.Command{
			e.shapeCommand(),
			e.parseCommand(),
			e.featuresCommand(),
			e.eventsCommand(),
			e.lsCommand(),
			e.statCommand(),
			e.findCommand(),
			e.importCommand(),
			e.exportCommand(),
			e.queryCommand(),
			e.versionCommand(),
			e.bashCommand(),
		},
	}
}

func corpusPath(c *cli.Context) (string, error) {
	path := c.String("corpus-path")
	if path == "" {
		return "", fmt.Errorf("corpus path not set: use --corpus-path or NAMEFIND_CORPUS_PATH")
	}
	return path, nil
}
