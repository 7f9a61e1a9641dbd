// Package config loads and saves the YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	appDir     = "lanelabel"
	configFile = "config.yaml"
)

// Config holds all LaneLabeller settings.
type Config struct {
	// Directory annotation files are written to. Relative paths are taken
	// from the working directory.
	SaveDir string `yaml:"save_dir"`

	// Pick radius for dragging and deleting points, in screen pixels.
	TolerancePx float64 `yaml:"tolerance_px"`

	// Marker drawing
	MarkerRadius float32 `yaml:"marker_radius"`
	MarkerAlpha  float64 `yaml:"marker_alpha"`
	LineWidth    float32 `yaml:"line_width"`

	LogLevel string `yaml:"log_level"`

	Window WindowConfig `yaml:"window"`

	// Manifest opened most recently from the GUI.
	LastManifest string `yaml:"last_manifest,omitempty"`
}

// WindowConfig is the initial window size.
type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SaveDir:      "annotations",
		TolerancePx:  7,
		MarkerRadius: 5,
		MarkerAlpha:  0.8,
		LineWidth:    2,
		LogLevel:     "info",
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
		},
	}
}

// DefaultPath returns $UserConfigDir/lanelabel/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return configFile
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads the configuration at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.SaveDir == "" {
		return fmt.Errorf("save_dir must not be empty")
	}
	if c.TolerancePx <= 0 {
		return fmt.Errorf("tolerance_px must be positive")
	}
	if c.MarkerRadius <= 0 {
		return fmt.Errorf("marker_radius must be positive")
	}
	if c.MarkerAlpha <= 0 || c.MarkerAlpha > 1 {
		return fmt.Errorf("marker_alpha must be in (0, 1]")
	}
	if c.LineWidth <= 0 {
		return fmt.Errorf("line_width must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	return nil
}
