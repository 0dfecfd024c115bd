//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// entryPath returns the XDG autostart desktop entry location, honoring
// XDG_CONFIG_HOME.
func (m *Manager) entryPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "autostart", m.appName+".desktop"), nil
}

// desktopEntry renders the XDG desktop entry contents.
func (m *Manager) desktopEntry() string {
	cmd := m.execPath
	if len(m.args) > 0 {
		cmd += " " + strings.Join(m.args, " ")
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", m.appName)
	fmt.Fprintf(&b, "Exec=%s\n", cmd)
	b.WriteString("Terminal=false\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// Enable writes the autostart desktop entry.
func (m *Manager) Enable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(m.desktopEntry()), 0644); err != nil {
		return fmt.Errorf("failed to write desktop entry: %w", err)
	}
	return nil
}

// Disable removes the autostart desktop entry if present.
func (m *Manager) Disable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove desktop entry: %w", err)
	}
	return nil
}

// IsEnabled reports whether the autostart entry exists.
func (m *Manager) IsEnabled() (bool, error) {
	path, err := m.entryPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
