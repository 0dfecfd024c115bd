//go:build linux

package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnableDisable_Roundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	m, err := NewManager("pindeck", LaunchAgent, "daemon")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	enabled, err := m.IsEnabled()
	if err != nil {
		t.Fatalf("IsEnabled failed: %v", err)
	}
	if enabled {
		t.Fatal("expected autostart to start disabled")
	}

	if err := m.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	enabled, err = m.IsEnabled()
	if err != nil {
		t.Fatalf("IsEnabled failed: %v", err)
	}
	if !enabled {
		t.Fatal("expected autostart to be enabled after Enable")
	}

	if err := m.Disable(); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	enabled, err = m.IsEnabled()
	if err != nil {
		t.Fatalf("IsEnabled failed: %v", err)
	}
	if enabled {
		t.Fatal("expected autostart to be disabled after Disable")
	}
}

func TestDisable_MissingEntryIsNoOp(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	m, err := NewManager("pindeck", LaunchAgent)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Disable(); err != nil {
		t.Errorf("expected Disable of a missing entry to succeed, got %v", err)
	}
}

func TestDesktopEntry_Contents(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	m, err := NewManager("pindeck", LaunchAgent, "daemon")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "autostart", "pindeck.desktop")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read desktop entry: %v", err)
	}

	entry := string(data)
	if !strings.HasPrefix(entry, "[Desktop Entry]\n") {
		t.Errorf("expected desktop entry header, got %q", entry)
	}
	if !strings.Contains(entry, "Name=pindeck\n") {
		t.Errorf("expected Name line, got %q", entry)
	}
	if !strings.Contains(entry, " daemon\n") {
		t.Errorf("expected launch args in Exec line, got %q", entry)
	}
}

func TestModeString(t *testing.T) {
	if LaunchAgent.String() != "launch-agent" {
		t.Errorf("expected launch-agent, got %s", LaunchAgent)
	}
	if LaunchDaemon.String() != "launch-daemon" {
		t.Errorf("expected launch-daemon, got %s", LaunchDaemon)
	}
}
