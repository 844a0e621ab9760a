package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshtopo/pkg/mesh"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mesh.Resolution != 1000 {
		t.Errorf("expected resolution 1000, got %g", cfg.Mesh.Resolution)
	}
	if cfg.Mesh.Topology != "triangles" {
		t.Errorf("expected topology 'triangles', got %s", cfg.Mesh.Topology)
	}
	if !cfg.Mesh.AutoUV {
		t.Error("expected auto_uv to be true by default")
	}
	if !cfg.Mesh.Sanitize {
		t.Error("expected sanitize to be true by default")
	}

	if cfg.UV.Anchor != "none" || cfg.UV.Fill != "tile" {
		t.Errorf("expected uv none/tile, got %s/%s", cfg.UV.Anchor, cfg.UV.Fill)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
mesh:
  resolution: 100
  topology: quads
  auto_uv: false

uv:
  anchor: lower_left
  fill: stretch

logging:
  level: "debug"
  log_file: "meshtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mesh.Resolution != 100 {
		t.Errorf("expected resolution 100, got %g", cfg.Mesh.Resolution)
	}
	if cfg.Mesh.AutoUV {
		t.Error("expected auto_uv to be false")
	}
	// Not in the file, default kept
	if !cfg.Mesh.Sanitize {
		t.Error("expected sanitize to keep its default")
	}

	topo, err := cfg.Topology()
	if err != nil || topo != mesh.Quads {
		t.Errorf("expected quads topology, got %v (%v)", topo, err)
	}

	s, err := cfg.UnwrapSettings()
	if err != nil {
		t.Fatalf("UnwrapSettings() error: %v", err)
	}
	if s.Anchor != mesh.AnchorLowerLeft || s.Fill != mesh.FillStretch {
		t.Errorf("expected lower_left/stretch, got %v/%v", s.Anchor, s.Fill)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "meshtool.log" {
		t.Errorf("expected log file 'meshtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
mesh:
  resolution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero resolution", func(c *Config) { c.Mesh.Resolution = 0 }},
		{"negative resolution", func(c *Config) { c.Mesh.Resolution = -5 }},
		{"nan resolution", func(c *Config) { c.Mesh.Resolution = math32.NaN() }},
		{"infinite resolution", func(c *Config) { c.Mesh.Resolution = math32.Inf(1) }},
		{"unknown topology", func(c *Config) { c.Mesh.Topology = "lines" }},
		{"unknown anchor", func(c *Config) { c.UV.Anchor = "top" }},
		{"unknown fill", func(c *Config) { c.UV.Fill = "cover" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  resolution: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "resolution flag",
			setup: func() { *flagResolution = 250 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.Resolution != 250 {
					t.Errorf("expected resolution 250, got %g", cfg.Mesh.Resolution)
				}
			},
			teardown: func() { *flagResolution = 0 },
		},
		{
			name:  "topology flag",
			setup: func() { *flagTopology = "quads" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.Topology != "quads" {
					t.Errorf("expected topology quads, got %s", cfg.Mesh.Topology)
				}
			},
			teardown: func() { *flagTopology = "" },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name:  "no-uv flag",
			setup: func() { *flagNoUV = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.AutoUV {
					t.Error("expected auto_uv to be disabled")
				}
			},
			teardown: func() { *flagNoUV = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
mesh:
  resolution: 500
  topology: quads
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagResolution = 2000
	defer func() {
		*flagConfig = ""
		*flagResolution = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Resolution from flag, not file
	if cfg.Mesh.Resolution != 2000 {
		t.Errorf("expected resolution 2000 from flag, got %g", cfg.Mesh.Resolution)
	}
	// Topology from file since no flag override
	if cfg.Mesh.Topology != "quads" {
		t.Errorf("expected topology quads from file, got %s", cfg.Mesh.Topology)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  topology: strips\n"), 0644); err != nil {
		t.Fatal(err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  resolutoin: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a misspelled key, got %v", err)
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if cfg.Mesh.Resolution != mesh.DefaultResolution {
		t.Errorf("expected default resolution, got %g", cfg.Mesh.Resolution)
	}
}

func TestLocate(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv(EnvPath, "")

	write := func(name string) {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("mesh:\n  resolution: 10\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("config.yaml")
	if got := locate(); got != "config.yaml" {
		t.Errorf("locate() = %q, want config.yaml", got)
	}

	write("meshtopo.yaml")
	if got := locate(); got != "meshtopo.yaml" {
		t.Errorf("locate() = %q, want meshtopo.yaml ahead of config.yaml", got)
	}

	t.Setenv(EnvPath, "/elsewhere/tool.yaml")
	if got := locate(); got != "/elsewhere/tool.yaml" {
		t.Errorf("locate() = %q, want the %s path", got, EnvPath)
	}

	*flagConfig = "explicit.yaml"
	defer func() { *flagConfig = "" }()
	if got := locate(); got != "explicit.yaml" {
		t.Errorf("locate() = %q, want the -config path", got)
	}
}

func TestLoadFileNonFiniteResolution(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  resolution: .nan\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(configPath); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Mesh.Topology = "quads"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Mesh.Topology != "quads" {
		t.Errorf("expected saved topology quads, got %s", loaded.Mesh.Topology)
	}
}
