package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level subtrack.yaml configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Import     ImportConfig     `yaml:"import"`
	Git        GitConfig        `yaml:"git"`
}

// ThresholdsConfig holds the tunable detection policy knobs. MinConfidence
// decides which eligible candidates are surfaced; the amount bounds feed
// the eligibility filter.
type ThresholdsConfig struct {
	MinConfidence int     `yaml:"min_confidence"`
	MinAmount     float64 `yaml:"min_amount"`
	MaxAmount     float64 `yaml:"max_amount"`
}

// ImportConfig controls bank-export ingestion.
type ImportConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// GitConfig controls git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a subtrack.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			MinConfidence: 50,
			MinAmount:     2.00,
			MaxAmount:     500.00,
		},
		Import: ImportConfig{
			DefaultFormat: "generic",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Subtrack",
			AuthorEmail: "bot@subtrack.dev",
		},
	}
}
