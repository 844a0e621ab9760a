package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable read when -config is not given.
const EnvPath = "MESHTOPO_CONFIG"

// Load resolves the configuration as defaults < config file < flags and
// validates the result.
func Load() (*Config, error) {
	return resolve(locate())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	return resolve(path)
}

func resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// locate picks the config file: -config, then $MESHTOPO_CONFIG, then the
// first existing entry of searchPaths. It returns "" when none applies.
func locate() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return findConfigFile()
}

// searchPaths lists the implicit config locations in lookup order.
func searchPaths() []string {
	return []string{
		"meshtopo.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

func findConfigFile() string {
	for _, path := range searchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user meshtopo config directory.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "meshtopo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "meshtopo")
}

// loadFromFile merges a YAML file over the values already in cfg. Unknown keys
// are rejected so a misspelled setting does not silently keep its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
