// Package config loads doclinks configuration from YAML with environment expansion.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".doclinks.yaml"

// Config is the root configuration.
type Config struct {
	// Root is the documentation root; detected when empty.
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	// Exclude holds doublestar patterns relative to Root.
	Exclude        []string `yaml:"exclude,omitempty"`
	Workers        int      `yaml:"workers"`
	SkipCodeBlocks bool     `yaml:"skip_code_blocks"`
	// HeadingCacheSize bounds the per-run heading cache. Negative disables it.
	HeadingCacheSize int `yaml:"heading_cache_size"`

	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Events  EventsConfig  `yaml:"events"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Quiet  bool   `yaml:"quiet"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus metrics of the run.
	Textfile string `yaml:"textfile,omitempty"`
}

// EventsConfig controls run event publication to NATS JetStream.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".md"}
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.HeadingCacheSize == 0 {
		cfg.HeadingCacheSize = 256
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Events.NATSURL == "" {
		cfg.Events.NATSURL = nats.DefaultURL
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = "doclinks.runs"
	}
}

// Load reads the configuration at path. A missing file yields defaults
// unless required is set.
func Load(path string, required bool) (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case stderrors.Is(err, os.ErrNotExist) && !required:
		cfg := Default()
		return cfg, cfg.Validate()
	case stderrors.Is(err, os.ErrNotExist):
		return nil, foundationerrors.ConfigError("configuration file not found").WithContext("path", path).Build()
	default:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML after expanding ${VAR} references, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "parse configuration").Fatal().Build()
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return foundationerrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Root = "docs"
	example.Exclude = []string{"node_modules/**", "**/_drafts/**"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "write configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
