// Package config handles project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents project configuration stored in bibmerge.yml.
type Config struct {
	InputDir string   `yaml:"input_dir"`
	Outputs  Outputs  `yaml:"outputs"`
	Authors  []string `yaml:"authors,omitempty"` // Inclusion filter queries; empty keeps everything
}

// Outputs lists output paths. An empty path disables that output.
type Outputs struct {
	CSV   string `yaml:"csv"`
	YAML  string `yaml:"yaml"`
	JSONL string `yaml:"jsonl"`
	XLSX  string `yaml:"xlsx,omitempty"`
	Bib   string `yaml:"bib,omitempty"`
	DB    string `yaml:"db"`
}

const (
	ConfigFile = "bibmerge.yml"
	StateDir   = ".bibmerge"
	CacheDir   = "cache"

	DefaultInputDir = "bibtex"
	DefaultCSVOut   = "bibtex/publications_master.csv"
	DefaultYAMLOut  = "_data/publications.yml"
)

// ErrInvalidConfig is returned when a loaded configuration is unusable.
var ErrInvalidConfig = errors.New("invalid config")

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		InputDir: DefaultInputDir,
		Outputs: Outputs{
			CSV:   DefaultCSVOut,
			YAML:  DefaultYAMLOut,
			JSONL: filepath.Join(StateDir, "publications.jsonl"),
			DB:    filepath.Join(StateDir, CacheDir, "publications.db"),
		},
	}
}

// FindConfig walks up from start looking for bibmerge.yml.
// Returns "" when none is found.
func FindConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		candidate := filepath.Join(abs, ConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// Load reads configuration from path. Keys missing from the file keep their
// defaults. Relative paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve expands ~ in every path and makes relative paths relative to root.
func (c *Config) Resolve(root string) {
	resolve := func(p string) string {
		if p == "" {
			return ""
		}
		p = ExpandPath(p)
		if filepath.IsAbs(p) || root == "" {
			return p
		}
		return filepath.Join(root, p)
	}

	c.InputDir = resolve(c.InputDir)
	c.Outputs.CSV = resolve(c.Outputs.CSV)
	c.Outputs.YAML = resolve(c.Outputs.YAML)
	c.Outputs.JSONL = resolve(c.Outputs.JSONL)
	c.Outputs.XLSX = resolve(c.Outputs.XLSX)
	c.Outputs.Bib = resolve(c.Outputs.Bib)
	c.Outputs.DB = resolve(c.Outputs.DB)
}

// Validate checks that the configuration can drive a build.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input_dir is empty", ErrInvalidConfig)
	}
	if c.Outputs.DB != "" && c.Outputs.JSONL == "" {
		return fmt.Errorf("%w: outputs.db requires outputs.jsonl", ErrInvalidConfig)
	}
	return nil
}

// Save writes configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
