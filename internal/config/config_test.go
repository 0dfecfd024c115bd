package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestDefaultConfig_PanelDimensions(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Panel.Width != 420 {
		t.Errorf("expected default width 420, got %v", cfg.Panel.Width)
	}
	if cfg.Panel.Height != 300 {
		t.Errorf("expected default height 300, got %v", cfg.Panel.Height)
	}
	if cfg.Panel.VerticalOffset != -300 {
		t.Errorf("expected default vertical offset -300, got %v", cfg.Panel.VerticalOffset)
	}
	if !cfg.Panel.AlwaysOnTop {
		t.Error("expected always_on_top to default to true")
	}
	if !cfg.Panel.Enabled {
		t.Error("expected panel to default to enabled")
	}
}

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Panel.Width != 420 {
		t.Errorf("expected default width 420, got %v", cfg.Panel.Width)
	}
}

func TestLoadFromPath_EmptyFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("expected defaults for empty file, got error: %v", err)
	}
	if cfg.Panel.Height != 300 {
		t.Errorf("expected default height 300, got %v", cfg.Panel.Height)
	}
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, `
panel:
  width: 500
logging:
  level: debug
`))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Panel.Width != 500 {
		t.Errorf("expected overridden width 500, got %v", cfg.Panel.Width)
	}
	// Untouched keys keep their defaults.
	if cfg.Panel.Height != 300 {
		t.Errorf("expected default height 300, got %v", cfg.Panel.Height)
	}
	if cfg.Panel.VerticalOffset != -300 {
		t.Errorf("expected default vertical offset -300, got %v", cfg.Panel.VerticalOffset)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromPath_DisabledPanel(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, `
panel:
  enabled: false
`))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Panel.Enabled {
		t.Error("expected explicit enabled: false to override the default")
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, `
panel:
  widht: 500
`))
	if err == nil {
		t.Fatal("expected misspelled key to be rejected")
	}
}

func TestLoadFromPath_InvalidValueRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, `
panel:
  width: -10
`))
	if err == nil {
		t.Fatal("expected negative width to be rejected")
	}
	if !strings.Contains(err.Error(), "panel.width") {
		t.Errorf("expected error to name panel.width, got %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Panel.Width = 0 }, "panel.width"},
		{"zero height", func(c *Config) { c.Panel.Height = 0 }, "panel.height"},
		{"negative scale override", func(c *Config) { c.ScaleOverride = -1 }, "scale_override"},
		{"negative check interval", func(c *Config) { c.Updater.CheckIntervalHours = -1 }, "updater.check_interval_hours"},
		{"bogus log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.path) {
				t.Errorf("expected error to name %s, got %v", tc.path, err)
			}
		})
	}
}

func TestLogLevel_Mapping(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Logging.Level = tc.level
		if got := cfg.LogLevel(); got != tc.want {
			t.Errorf("LogLevel(%q) = %v, expected %v", tc.level, got, tc.want)
		}
	}
}

func TestPanelSpec_MirrorsPanelSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panel.Width = 512
	cfg.Panel.Height = 256
	cfg.Panel.VerticalOffset = -128

	spec := cfg.PanelSpec()
	if spec.Width != 512 || spec.Height != 256 || spec.VerticalOffset != -128 {
		t.Errorf("expected spec {512 256 -128}, got %+v", spec)
	}
}
