package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-canon/rdf"
)

// Config represents an rdfcanon configuration file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Limits  LimitsConfig  `yaml:"limits"`
	Workers int           `yaml:"workers,omitempty"`
	Printer PrinterConfig `yaml:"printer"`
	Skolem  SkolemConfig  `yaml:"skolem"`
}

// LogConfig selects the log level, formatter and static fields.
type LogConfig struct {
	Level     string                 `yaml:"level,omitempty"`     // panic, fatal, error, warn, info, debug, trace
	Formatter string                 `yaml:"formatter,omitempty"` // "text" or "json"
	Fields    map[string]interface{} `yaml:"fields,omitempty"`
}

// LimitsConfig bounds the work done on untrusted input. An unset limit keeps the
// library default; an explicit 0 removes the limit.
type LimitsConfig struct {
	Safe       bool   `yaml:"safe,omitempty"`
	MaxDepth   *int   `yaml:"max_depth,omitempty"`
	MaxTriples *int64 `yaml:"max_triples,omitempty"`
}

// PrinterConfig configures canonical Turtle output.
type PrinterConfig struct {
	Base     string            `yaml:"base,omitempty"`
	Indent   int               `yaml:"indent,omitempty"`
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
}

// SkolemConfig holds the base IRI used by skolemize and deskolemize.
type SkolemConfig struct {
	Base string `yaml:"base,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Formatter: "text"},
		Printer: PrinterConfig{Indent: rdf.DefaultIndentWidth},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// applyDefaults fills fields an explicit empty section left blank.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Formatter == "" {
		c.Log.Formatter = "text"
	}
	if c.Printer.Indent == 0 {
		c.Printer.Indent = rdf.DefaultIndentWidth
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Limits.MaxDepth != nil && *c.Limits.MaxDepth < 0 {
		return fmt.Errorf("limits.max_depth must not be negative, got %d", *c.Limits.MaxDepth)
	}
	if c.Limits.MaxTriples != nil && *c.Limits.MaxTriples < 0 {
		return fmt.Errorf("limits.max_triples must not be negative, got %d", *c.Limits.MaxTriples)
	}
	if _, err := rdf.NewPrinter(c.printerConfig()); err != nil {
		return err
	}
	if c.Skolem.Base != "" {
		if err := rdf.ValidateIRI(c.Skolem.Base); err != nil {
			return fmt.Errorf("skolem.base: %w", err)
		}
	}
	return nil
}

func (c *Config) printerConfig() rdf.PrinterConfig {
	return rdf.PrinterConfig{
		Base:        c.Printer.Base,
		Prefixes:    c.Printer.Prefixes,
		IndentWidth: c.Printer.Indent,
	}
}

// options converts limits and workers to canonicalizer options.
func (c *Config) options() []rdf.Option {
	var opts []rdf.Option
	if c.Limits.Safe {
		opts = append(opts, rdf.OptSafeLimits())
	}
	if c.Limits.MaxDepth != nil {
		opts = append(opts, rdf.OptMaxDepth(*c.Limits.MaxDepth))
	}
	if c.Limits.MaxTriples != nil {
		opts = append(opts, rdf.OptMaxTriples(*c.Limits.MaxTriples))
	}
	if c.Workers > 0 {
		opts = append(opts, rdf.OptWorkers(c.Workers))
	}
	return opts
}
