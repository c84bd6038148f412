package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Recursive   bool     `yaml:"recursive"`
	Extensions  []string `yaml:"extensions"`
	Skip        []string `yaml:"skip"`
	MaxInFlight int      `yaml:"max_in_flight"`
	Pathway     string   `yaml:"pathway"`
	BatchSize   int      `yaml:"batch_size"`
	OutputFile  string   `yaml:"output_file"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Skip: []string{
			".git/",
			".svn/",
			"node_modules/",
			"vendor/",
			"__pycache__/",
			".DS_Store/",
		},
		Pathway:   "auto",
		BatchSize: 100,
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so a partial file only overrides what it sets
	cfg := DefaultConfig()
	cfg.Skip = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Skip slice if nil (for empty configs)
	if cfg.Skip == nil {
		cfg.Skip = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the traversal cannot run with.
func (c *Config) Validate() error {
	if c.MaxInFlight < 0 {
		return fmt.Errorf("max_in_flight must not be negative, got %d", c.MaxInFlight)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	switch c.Pathway {
	case "", "auto", "handle", "entry":
	default:
		return fmt.Errorf("unknown pathway %q", c.Pathway)
	}
	return nil
}
