package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/feature"
	"github.com/revelaction/namefind/render"
)

type FeaturesOptions struct {
	ConfigPath string
	JSON       bool
	NoColor    bool
	Normalize  bool
}

func (e *env) featuresCommand() *cli.Command {
	return &cli.Command{
		Name:      "features",
		Usage:     "print the context features of every token of a sentence (stdin if none given)",
		ArgsUsage: "[TOKEN...]",
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{Name: "json", Usage: "print the features of each sentence as JSON"},
			&cli.BoolFlag{Name: "no-color", Usage: "do not color tokens"},
			nfcFlag,
		},
		Action: func(c *cli.Context) error {
			opts := FeaturesOptions{
				ConfigPath: c.Path("config"),
				JSON:       c.Bool("json"),
				NoColor:    c.Bool("no-color"),
				Normalize:  c.Bool("nfc"),
			}
			return featuresCommand(opts, source(c.Args().Slice(), e.in), e.ui)
		},
	}
}

func featuresCommand(opts FeaturesOptions, in io.Reader, ui UI) error {
	g, err := generator(opts.ConfigPath)
	if err != nil {
		return err
	}

	sents, err := sentences(in, opts.Normalize)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor
	jr := render.NewJSONRenderer(ui.Out)

	for _, tokens := range sents {
		feats, err := feature.All(g, tokens)
		if err != nil {
			return err
		}

		if opts.JSON {
			if err := jr.Value(feats); err != nil {
				return err
			}
			continue
		}
		r.Features(tokens, feats)
	}
	return nil
}
