// Package config handles workspace configuration for robot-report.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (robot-report.yaml).
// All fields are optional; flags override config values.
type Config struct {
	Title        string `yaml:"title"`        // Report title
	Output       string `yaml:"output"`       // Output file (single input) or directory (batch)
	KeywordLimit int    `yaml:"keywordLimit"` // Max rows in the keyword usage table
	MaxWorkers   int    `yaml:"maxWorkers"`   // Parallel report generation bound
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for robot-report.yaml or robot-report.yml in the
// directory. A missing config file yields an empty config, not an error.
func LoadFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, "robot-report.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	configPath = filepath.Join(dir, "robot-report.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	return &Config{}, nil
}
