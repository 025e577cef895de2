package kgen

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/birdayz/kgraph/internal/loader"
)

// Config controls a generator run. It is usually read from a kgraph.yaml file
// next to the go:generate directive and overridden by flags.
type Config struct {
	// Dir is the directory patterns are resolved in.
	Dir      string   `mapstructure:"dir"`
	Patterns []string `mapstructure:"patterns"`
	// Output is the base name of the generated file in every package.
	Output string   `mapstructure:"output"`
	Tags   []string `mapstructure:"tags"`
	// Manifest, if set, is the path of a YAML summary of all generated
	// definitions.
	Manifest string `mapstructure:"manifest"`
	// Strict turns warnings into failures.
	Strict bool `mapstructure:"strict"`
	// DryRun renders everything but writes nothing.
	DryRun bool `mapstructure:"dry_run"`

	Log logr.Logger `mapstructure:"-"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Dir:      ".",
		Patterns: []string{"."},
		Output:   loader.DefaultOutput,
		Log:      logr.Discard(),
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(values); err != nil {
		return cfg, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) loaderConfig() loader.Config {
	return loader.Config{
		Dir:      c.Dir,
		Patterns: c.Patterns,
		Output:   c.Output,
		Tags:     c.Tags,
	}
}
