// Package config loads per-repository rbdoc settings from .rbdoc.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up at the repository root.
const FileName = ".rbdoc.yml"

const defaultMaxFileSize = 1_000_000 // 1 MB

// Config holds repository-level settings. Command-line flags override
// whatever is set here.
type Config struct {
	// MaxFileSize skips source files larger than this many bytes.
	MaxFileSize int `yaml:"max_file_size"`

	// Cache is the cache file path, relative to the repository root.
	Cache string `yaml:"cache"`

	// Exclude lists gitignore-style patterns removed from discovery.
	Exclude []string `yaml:"exclude"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{MaxFileSize: defaultMaxFileSize}
}

// Load reads root's .rbdoc.yml, falling back to defaults when the file is
// absent. Unset fields keep their default values.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	return cfg, nil
}
