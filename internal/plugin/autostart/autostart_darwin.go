//go:build darwin

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// label is the launchd job label. Keeping it constant means Enable after
// a binary move replaces the old job instead of stacking a second one.
func (m *Manager) label() string {
	return "io." + m.appName
}

// plistPath returns the job file location for the configured mode.
// LaunchDaemon lands in the system domain and needs root to write.
func (m *Manager) plistPath() (string, error) {
	if m.mode == LaunchDaemon {
		return filepath.Join("/Library/LaunchDaemons", m.label()+".plist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Library", "LaunchAgents", m.label()+".plist"), nil
}

// plist renders the launchd job definition.
func (m *Manager) plist() string {
	var args strings.Builder
	fmt.Fprintf(&args, "        <string>%s</string>\n", m.execPath)
	for _, a := range m.args {
		fmt.Fprintf(&args, "        <string>%s</string>\n", a)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, m.label(), args.String())
}

// Enable writes the launchd job file. launchd picks it up at next login;
// no launchctl call is made so Enable works from a sandboxed install step.
func (m *Manager) Enable() error {
	path, err := m.plistPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create launchd directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(m.plist()), 0644); err != nil {
		return fmt.Errorf("failed to write launchd job: %w", err)
	}
	return nil
}

// Disable removes the launchd job file if present.
func (m *Manager) Disable() error {
	path, err := m.plistPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove launchd job: %w", err)
	}
	return nil
}

// IsEnabled reports whether the launchd job file exists.
func (m *Manager) IsEnabled() (bool, error) {
	path, err := m.plistPath()
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
