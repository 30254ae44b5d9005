package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/render"
	"github.com/revelaction/namefind/sample"
)

type ParseOptions struct {
	JSON      bool
	Normalize bool
}

func (e *env) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse <START>/<END> annotated lines and print their names (stdin if none given)",
		ArgsUsage: "[LINE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print one JSON sample per line"},
			nfcFlag,
		},
		Action: func(c *cli.Context) error {
			opts := ParseOptions{JSON: c.Bool("json"), Normalize: c.Bool("nfc")}
			return parseCommand(opts, source(c.Args().Slice(), e.in), e.ui)
		},
	}
}

func parseCommand(opts ParseOptions, in io.Reader, ui UI) error {
	rd := sample.NewReader(in)
	rd.Normalize = opts.Normalize
	jr := render.NewJSONRenderer(ui.Out)

	for {
		s, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if opts.JSON {
			if err := jr.Value(s); err != nil {
				return err
			}
			continue
		}

		if s.ClearAdaptiveData {
			fmt.Fprintf(ui.Out, "%d\t-\n", rd.Line())
			continue
		}

		for _, n := range s.Names {
			fmt.Fprintf(ui.Out, "%d\t%s\t%s\n", rd.Line(), n, strings.Join(s.Tokens[n.Start:n.End], " "))
		}
	}
}
