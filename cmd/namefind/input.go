package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/namefind/feature"
	"github.com/revelaction/namefind/sample"
)

var configFlag = &cli.PathFlag{
	Name:    "config",
	Usage:   "YAML feature pipeline config",
	EnvVars: []string{"NAMEFIND_FEATURE_CONFIG"},
}

var nfcFlag = &cli.BoolFlag{
	Name:  "nfc",
	Usage: "apply Unicode NFC normalization to the input",
}

// source returns the line given as arguments, or in when there are none.
func source(args []string, in io.Reader) io.Reader {
	if len(args) > 0 {
		return strings.NewReader(strings.Join(args, " "))
	}
	return in
}

// openSource opens the file named by the first argument, or returns in.
func openSource(args []string, in io.Reader) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(in), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	return f, nil
}

// sentences returns the tokens of every non empty line of r. Name
// annotations are accepted and dropped.
func sentences(r io.Reader, normalize bool) ([][]string, error) {
	rd := sample.NewReader(r)
	rd.Normalize = normalize

	var out [][]string
	for {
		s, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(s.Tokens) == 0 {
			continue
		}
		out = append(out, s.Tokens)
	}
}

func generator(configPath string) (feature.Generator, error) {
	cfg := feature.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = feature.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	return cfg.Build()
}
