package models

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DerivedField maps a canonical source field to the summary field created
// from it when the summary is missing.
type DerivedField struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// SummarizeConfig controls which job fields are summarized and how far.
type SummarizeConfig struct {
	MaxLength int            `yaml:"max_length"`
	Threshold int            `yaml:"threshold"`
	Suffix    string         `yaml:"suffix"`
	Derived   []DerivedField `yaml:"derived"`
}

// SplitConfig controls chunk size and output naming.
type SplitConfig struct {
	Size    int    `yaml:"size"`
	Pattern string `yaml:"pattern"`
	Start   int    `yaml:"start"`
}

// TransformConfig controls the schema transform.
type TransformConfig struct {
	BatchSize      int    `yaml:"batch_size"`
	DefaultSource  string `yaml:"default_source"`
	NormalizeDates bool   `yaml:"normalize_dates"`
}

// Config is the optional pipeline.yaml file. CLI flags that are explicitly
// set take precedence over it.
type Config struct {
	Summarize SummarizeConfig `yaml:"summarize"`
	Split     SplitConfig     `yaml:"split"`
	Transform TransformConfig `yaml:"transform"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Summarize: SummarizeConfig{
			MaxLength: 200,
			Threshold: 50,
			Suffix:    "Sum",
			Derived:   []DerivedField{{Source: "description", Target: "descriptionSum"}},
		},
		Split: SplitConfig{
			Size:    66,
			Pattern: "ketquafinal-{n}.json",
			Start:   1,
		},
		Transform: TransformConfig{
			BatchSize: 10,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Summarize.MaxLength <= 2 {
		return fmt.Errorf("summarize.max_length must be greater than 2, got %d", c.Summarize.MaxLength)
	}
	if c.Summarize.Threshold < 0 {
		return fmt.Errorf("summarize.threshold must not be negative, got %d", c.Summarize.Threshold)
	}
	for _, d := range c.Summarize.Derived {
		if d.Source == "" || d.Target == "" {
			return fmt.Errorf("summarize.derived entries need both source and target")
		}
	}
	if c.Split.Size <= 0 {
		return fmt.Errorf("split.size must be positive, got %d", c.Split.Size)
	}
	if c.Transform.BatchSize <= 0 {
		return fmt.Errorf("transform.batch_size must be positive, got %d", c.Transform.BatchSize)
	}
	return nil
}
