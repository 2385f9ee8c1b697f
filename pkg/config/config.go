// Package config holds the run settings of subcheck: input paths, output
// format and failure policy. Settings come from built-in defaults, an
// optional subcheck.yaml, and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "subcheck.yaml"

// Built-in input locations.
const (
	DefaultSubmission = "submission.json"
	DefaultReference  = "Eval-Data-Label/STask-A(index,label)val.csv"
	DefaultColumn     = "index"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the effective configuration of a run.
type Config struct {
	Submission string `yaml:"submission,omitempty"`
	Reference  string `yaml:"reference,omitempty"`
	Column     string `yaml:"column,omitempty"`
	Format     string `yaml:"format,omitempty"`
	Width      int    `yaml:"width,omitempty"` // 0 disables list truncation
	FailWhen   string `yaml:"fail_when,omitempty"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Submission: DefaultSubmission,
		Reference:  DefaultReference,
		Column:     DefaultColumn,
		Format:     FormatText,
	}
}

// LoadFile reads a config file. When required is false a missing file
// yields an empty Config.
func LoadFile(path string, required bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load parses a config document, rejecting unknown keys.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Merge returns c with every non-zero field of over applied on top.
func (c Config) Merge(over Config) Config {
	if over.Submission != "" {
		c.Submission = over.Submission
	}
	if over.Reference != "" {
		c.Reference = over.Reference
	}
	if over.Column != "" {
		c.Column = over.Column
	}
	if over.Format != "" {
		c.Format = over.Format
	}
	if over.Width != 0 {
		c.Width = over.Width
	}
	if over.FailWhen != "" {
		c.FailWhen = over.FailWhen
	}
	return c
}

// Validate checks the effective configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Submission == "" {
		errs = append(errs, errors.New("submission path is empty"))
	}
	if c.Reference == "" {
		errs = append(errs, errors.New("reference path is empty"))
	}
	if c.Column == "" {
		errs = append(errs, errors.New("reference column is empty"))
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("unknown format %q, expected %q or %q", c.Format, FormatText, FormatJSON))
	}
	if c.Width < 0 {
		errs = append(errs, fmt.Errorf("width must not be negative, got %d", c.Width))
	}
	return errors.Join(errs...)
}
