package main

import (
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/shape"
)

type ShapeOptions struct {
	Cache int
}

func (e *env) shapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "shape",
		Usage:     "print the word shape of tokens (stdin if none given)",
		ArgsUsage: "[TOKEN...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cache", Usage: "LRU cache size in front of the classifier, 0 disables"},
		},
		Action: func(c *cli.Context) error {
			return shapeCommand(ShapeOptions{Cache: c.Int("cache")}, c.Args().Slice(), e.in, e.ui)
		},
	}
}

func shapeCommand(opts ShapeOptions, tokens []string, in io.Reader, ui UI) error {
	var classifier shape.Classifier = shape.Default
	if opts.Cache > 0 {
		cached, err := shape.NewCachedClassifier(opts.Cache)
		if err != nil {
			return err
		}
		classifier = cached
	}

	if len(tokens) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		tokens = strings.Fields(string(data))
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.Shapes(tokens, classifier)
	return nil
}
