// Package config loads a pipeline description and compiles it into a wired
// signal graph.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a complete pipeline: one raw source, a list of derived
// indicators, the requested output names, and an optional journal.
type Config struct {
	Source     SourceConfig      `json:"source" yaml:"source"`
	Indicators []IndicatorConfig `json:"indicators" yaml:"indicators"`
	Outputs    []string          `json:"outputs" yaml:"outputs"`
	Journal    JournalConfig     `json:"journal,omitempty" yaml:"journal,omitempty"`

	// SafeNone overrides the default none-safety of operation nodes.
	// Unset means enabled.
	SafeNone *bool `json:"safe_none,omitempty" yaml:"safe_none,omitempty"`
}

// SourceConfig describes the raw value stream.
type SourceConfig struct {
	// Name the source node is registered under; defaults to "price".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// CSV is the path of a CSV file to stream from.
	CSV string `json:"csv" yaml:"csv"`
	// Column is the CSV header name to read; defaults to "close".
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
}

// IndicatorConfig describes one derived node.
type IndicatorConfig struct {
	Name string `json:"name" yaml:"name"`
	// Type is one of: sma, variance, min, max, median, ema, diff, aging.
	Type string `json:"type" yaml:"type"`
	// Of names the node this indicator derives from; defaults to the
	// source.
	Of     string  `json:"of,omitempty" yaml:"of,omitempty"`
	Window int     `json:"window,omitempty" yaml:"window,omitempty"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// JournalConfig selects where tick records are persisted.
type JournalConfig struct {
	// Type is "sqlite", "csv" or empty for no journal.
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads a configuration file, trying YAML first and falling
// back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Name == "" {
		c.Source.Name = "price"
	}
	if c.Source.Column == "" {
		c.Source.Column = "close"
	}
	for i := range c.Indicators {
		if c.Indicators[i].Of == "" {
			c.Indicators[i].Of = c.Source.Name
		}
	}
}

// Validate checks cross-field consistency before any graph is built.
func (c *Config) Validate() error {
	if c.Source.CSV == "" {
		return fmt.Errorf("config: source.csv is required")
	}
	if len(c.Outputs) == 0 {
		return fmt.Errorf("config: at least one output is required")
	}
	names := map[string]bool{c.Source.Name: true}
	for _, ind := range c.Indicators {
		if ind.Name == "" {
			return fmt.Errorf("config: indicator with empty name")
		}
		if names[ind.Name] {
			return fmt.Errorf("config: duplicate node name %q", ind.Name)
		}
		if !names[ind.Of] {
			return fmt.Errorf("config: indicator %q derives from unknown node %q", ind.Name, ind.Of)
		}
		switch ind.Type {
		case "sma", "variance", "min", "max", "median":
			if ind.Window <= 0 {
				return fmt.Errorf("config: indicator %q needs a positive window", ind.Name)
			}
		case "ema":
			if ind.Weight <= 0 || ind.Weight >= 1 {
				return fmt.Errorf("config: indicator %q needs a weight in (0, 1)", ind.Name)
			}
		case "diff", "aging":
		default:
			return fmt.Errorf("config: indicator %q has unknown type %q", ind.Name, ind.Type)
		}
		names[ind.Name] = true
	}
	for _, out := range c.Outputs {
		if !names[out] {
			return fmt.Errorf("config: output %q names no node", out)
		}
	}
	switch c.Journal.Type {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("config: unknown journal type %q", c.Journal.Type)
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("config: journal.db_path is required for sqlite")
	}
	if c.Journal.Type == "csv" && c.Journal.File == "" {
		return fmt.Errorf("config: journal.file is required for csv")
	}
	return nil
}
