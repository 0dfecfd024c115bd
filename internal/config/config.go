package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pindeck/pindeck/internal/geometry"
)

// PanelConfig controls the pinned panel window.
type PanelConfig struct {
	Title string `yaml:"title"`
	// Width and Height are logical pixels.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// VerticalOffset shifts the panel from the vertical center of the
	// primary monitor. Negative values move it toward the top edge.
	VerticalOffset float64 `yaml:"vertical_offset"`
	AlwaysOnTop    bool    `yaml:"always_on_top"`
	// Enabled false runs the daemon headless, with no panel window.
	Enabled bool `yaml:"enabled"`
}

// HotkeysConfig binds global hotkeys. An empty string leaves the hotkey
// unbound.
type HotkeysConfig struct {
	TogglePanel string `yaml:"toggle_panel"`
}

// UpdaterConfig controls the background release checker.
type UpdaterConfig struct {
	Endpoint           string `yaml:"endpoint"`
	CheckIntervalHours int    `yaml:"check_interval_hours"`
	Notify             bool   `yaml:"notify"`
}

// LoggingConfig controls daemon log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Panel     PanelConfig   `yaml:"panel"`
	Hotkeys   HotkeysConfig `yaml:"hotkeys"`
	Autostart bool          `yaml:"autostart"`
	Updater   UpdaterConfig `yaml:"updater"`
	Logging   LoggingConfig `yaml:"logging"`
	// ScaleOverride forces the monitor scale factor when > 0, for
	// setups where DPI detection is absent or wrong.
	ScaleOverride float64 `yaml:"scale_override"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Panel: PanelConfig{
			Title:          "pindeck",
			Width:          geometry.DefaultPanelWidth,
			Height:         geometry.DefaultPanelHeight,
			VerticalOffset: geometry.DefaultPanelVerticalOffset,
			AlwaysOnTop:    true,
			Enabled:        true,
		},
		Hotkeys: HotkeysConfig{
			TogglePanel: "Mod4-Mod1-p", // Super+Alt+P toggles the panel
		},
		Updater: UpdaterConfig{
			CheckIntervalHours: 24,
			Notify:             true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Panel.Width <= 0 {
		return &ValidationError{Path: "panel.width", Err: fmt.Errorf("must be positive, got %v", c.Panel.Width)}
	}
	if c.Panel.Height <= 0 {
		return &ValidationError{Path: "panel.height", Err: fmt.Errorf("must be positive, got %v", c.Panel.Height)}
	}
	if c.ScaleOverride < 0 {
		return &ValidationError{Path: "scale_override", Err: fmt.Errorf("must not be negative, got %v", c.ScaleOverride)}
	}
	if c.Updater.CheckIntervalHours < 0 {
		return &ValidationError{Path: "updater.check_interval_hours", Err: fmt.Errorf("must not be negative, got %d", c.Updater.CheckIntervalHours)}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("must be one of debug, info, warn, error; got %q", c.Logging.Level)}
	}
	return nil
}

// PanelSpec converts the panel settings into placement dimensions.
func (c *Config) PanelSpec() geometry.PanelSpec {
	return geometry.PanelSpec{
		Width:          c.Panel.Width,
		Height:         c.Panel.Height,
		VerticalOffset: c.Panel.VerticalOffset,
	}
}

// LogLevel maps the configured level string onto slog.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
