package feature

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/namefind/shape"
)

// Generator names accepted in a Config.
const (
	NameContext    = "context"
	NameTokenClass = "tokenclass"
	NameSentence   = "sentence"
)

// Config selects the generators of a feature pipeline.
//
//	generators: [context, sentence]
//	cache_size: 10000
type Config struct {
	Generators []string `yaml:"generators"`

	// CacheSize > 0 puts an LRU cache of that many tokens in front of
	// the shape classifier.
	CacheSize int `yaml:"cache_size"`
}

// DefaultConfig is the context generator alone.
func DefaultConfig() Config {
	return Config{Generators: []string{NameContext}}
}

// LoadConfig reads a YAML pipeline config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("IO error: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("YAML decoding error in %s: %w", path, err)
	}

	if len(c.Generators) == 0 {
		c.Generators = DefaultConfig().Generators
	}
	return c, nil
}

// Build returns the generator described by c.
func (c Config) Build() (Generator, error) {
	var shapes shape.Classifier = shape.Default
	if c.CacheSize > 0 {
		cached, err := shape.NewCachedClassifier(c.CacheSize)
		if err != nil {
			return nil, err
		}
		shapes = cached
	}

	names := c.Generators
	if len(names) == 0 {
		names = DefaultConfig().Generators
	}

	agg := make(Aggregate, 0, len(names))
	for _, name := range names {
		switch name {
		case NameContext:
			agg = append(agg, &ContextGenerator{Shapes: shapes})
		case NameTokenClass:
			agg = append(agg, &TokenClassGenerator{Shapes: shapes})
		case NameSentence:
			agg = append(agg, SentenceGenerator{})
		default:
			return nil, fmt.Errorf("unknown feature generator: %q", name)
		}
	}

	if len(agg) == 1 {
		return agg[0], nil
	}
	return agg, nil
}
