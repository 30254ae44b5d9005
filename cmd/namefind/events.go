package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/namefind/feature"
	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/sample"
)

type EventsOptions struct {
	ConfigPath    string
	JSON          bool
	Normalize     bool
	SkipMalformed bool
}

func (e *env) eventsCommand() *cli.Command {
	return &cli.Command{
		Name:      "events",
		Usage:     "print one training event per token of an annotated corpus (stdin if no file)",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{Name: "json", Usage: "print events as JSON lines"},
			&cli.BoolFlag{Name: "skip-malformed", Usage: "drop malformed lines instead of failing"},
			nfcFlag,
		},
		Action: func(c *cli.Context) error {
			opts := EventsOptions{
				ConfigPath:    c.Path("config"),
				JSON:          c.Bool("json"),
				Normalize:     c.Bool("nfc"),
				SkipMalformed: c.Bool("skip-malformed"),
			}
			rc, err := openSource(c.Args().Slice(), e.in)
			if err != nil {
				return err
			}
			defer rc.Close()
			return eventsCommand(opts, rc, e.logger, e.ui)
		},
	}
}

func eventsCommand(opts EventsOptions, in io.Reader, logger *zap.Logger, ui UI) error {
	g, err := generator(opts.ConfigPath)
	if err != nil {
		return err
	}

	rd := sample.NewReader(in)
	rd.Normalize = opts.Normalize
	jr := render.NewJSONRenderer(ui.Out)

	count := 0
	for {
		s, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if opts.SkipMalformed && errors.Is(err, sample.ErrMalformedAnnotation) {
				logger.Warn("skipping malformed line", zap.Int("line", rd.Line()), zap.Error(err))
				continue
			}
			return err
		}

		evs, err := feature.Events(s, g)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if opts.JSON {
				if err := jr.Value(ev); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(ui.Out, ev.String())
			}
			count++
		}
	}

	logger.Debug("events written", zap.Int("events", count), zap.Int("lines", rd.Line()))
	return nil
}
