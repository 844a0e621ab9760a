// Package config handles meshtool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all meshtool settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	UV      UVConfig      `yaml:"uv"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds mesh building and compilation settings.
type MeshConfig struct {
	Resolution float32 `yaml:"resolution"` // Quantization steps per unit for coincident grouping
	Topology   string  `yaml:"topology"`   // "triangles" or "quads"
	AutoUV     bool    `yaml:"auto_uv"`    // Regenerate UVs on rebuild
	Sanitize   bool    `yaml:"sanitize"`   // Replace NaN/Inf on load
}

// UVConfig holds the unwrap settings given to faces that do not specify their own.
type UVConfig struct {
	Anchor string `yaml:"anchor"`
	Fill   string `yaml:"fill"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Resolution: mesh.DefaultResolution,
			Topology:   mesh.Triangles.String(),
			AutoUV:     true,
			Sanitize:   true,
		},
		UV: UVConfig{
			Anchor: mesh.AnchorNone.String(),
			Fill:   mesh.FillTile.String(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be expressed in YAML types alone.
func (c *Config) Validate() error {
	if !math.IsFinite(c.Mesh.Resolution) || c.Mesh.Resolution <= 0 {
		return fmt.Errorf("%w: mesh.resolution must be a finite positive number, got %g", ErrInvalidConfig, c.Mesh.Resolution)
	}
	if _, err := c.Topology(); err != nil {
		return fmt.Errorf("%w: mesh.topology: %v", ErrInvalidConfig, err)
	}
	if _, err := c.UnwrapSettings(); err != nil {
		return fmt.Errorf("%w: uv: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Topology returns the parsed mesh.topology setting.
func (c *Config) Topology() (mesh.Topology, error) {
	return mesh.ParseTopology(c.Mesh.Topology)
}

// BuildOptions returns the mesh construction options.
func (c *Config) BuildOptions() mesh.BuildOptions {
	return mesh.BuildOptions{Resolution: c.Mesh.Resolution}
}

// UnwrapSettings returns the default per-face unwrap settings.
func (c *Config) UnwrapSettings() (mesh.AutoUnwrapSettings, error) {
	s := mesh.DefaultUnwrapSettings()
	anchor, err := mesh.ParseAnchor(c.UV.Anchor)
	if err != nil {
		return s, err
	}
	fill, err := mesh.ParseFill(c.UV.Fill)
	if err != nil {
		return s, err
	}
	s.Anchor = anchor
	s.Fill = fill
	return s, nil
}
