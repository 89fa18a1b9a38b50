// Package config loads the TOML run configuration: input and output paths,
// worker count, and validator overrides. A missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ijm11/becas-extractor/pkg/validate"
)

// Config is the full run configuration.
type Config struct {
	// InputDir holds the announcement text files (*.txt).
	InputDir string `toml:"input_dir"`

	// OutputDir receives exported corpus files.
	OutputDir string `toml:"output_dir"`

	// DatabasePath is the SQLite corpus store location.
	DatabasePath string `toml:"database_path"`

	// RegistryPath optionally points at a YAML article-registry overlay.
	RegistryPath string `toml:"registry_path,omitempty"`

	// Workers bounds concurrent document extraction.
	Workers int `toml:"workers"`

	// TruncatePrograms shortens the programs column in CSV/XLSX output.
	TruncatePrograms bool `toml:"truncate_programs"`

	Validator ValidatorConfig `toml:"validator"`
}

// ValidatorConfig overrides the leaf-count range.
type ValidatorConfig struct {
	MinLeaves int `toml:"min_leaves"`
	MaxLeaves int `toml:"max_leaves"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InputDir:         "convocatorias",
		OutputDir:        "out",
		DatabasePath:     filepath.Join("out", "corpus.db"),
		Workers:          4,
		TruncatePrograms: true,
		Validator: ValidatorConfig{
			MinLeaves: validate.DefaultMinLeaves,
			MaxLeaves: validate.DefaultMaxLeaves,
		},
	}
}

// Load reads the TOML file at path, layering it over the defaults. A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Validator.MinLeaves > c.Validator.MaxLeaves {
		return fmt.Errorf("validator range inverted: min %d > max %d",
			c.Validator.MinLeaves, c.Validator.MaxLeaves)
	}
	return nil
}
