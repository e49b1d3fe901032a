package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultCLIConfigName = ".kanso.yaml"

// CLIConfig is the offline tracker's YAML file.
type CLIConfig struct {
	DBPath   string `yaml:"db_path"`
	Timezone string `yaml:"timezone"`
}

// DefaultCLIConfigPath is ~/.kanso.yaml, or ./.kanso.yaml without a home.
func DefaultCLIConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultCLIConfigName
	}
	return filepath.Join(home, DefaultCLIConfigName)
}

// LoadCLI reads path. A missing file yields the defaults.
func LoadCLI(path string) (CLIConfig, error) {
	cfg := CLIConfig{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), "kanso.db")
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	return cfg, nil
}

func (c CLIConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Save writes the file with owner-only permissions.
func (c CLIConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
