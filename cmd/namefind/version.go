package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X main.BuildTag=... -X main.BuildCommit=...".
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func (e *env) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			return versionCommand(e.ui)
		},
	}
}

func versionCommand(ui UI) error {
	_, err := fmt.Fprintf(ui.Out, "namefind version %s (commit: %s)\n", BuildTag, BuildCommit)
	return err
}
