//go:build windows

package autostart

import (
	"fmt"
	"os/exec"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// command is the full launch command line stored in the Run key.
func (m *Manager) command() string {
	parts := []string{fmt.Sprintf("%q", m.execPath)}
	parts = append(parts, m.args...)
	return strings.Join(parts, " ")
}

// Enable stores the launch command under the per-user Run key. reg.exe
// ships with every Windows install, so no registry API binding is needed.
func (m *Manager) Enable() error {
	out, err := exec.Command("reg", "add", runKey,
		"/v", m.appName, "/t", "REG_SZ", "/d", m.command(), "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to write Run key: %v (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Disable removes the Run key value if present.
func (m *Manager) Disable() error {
	enabled, err := m.IsEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	out, err := exec.Command("reg", "delete", runKey, "/v", m.appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to delete Run key: %v (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsEnabled reports whether the Run key value exists. reg.exe exits
// nonzero when the value is absent, which is a normal answer, not an
// error.
func (m *Manager) IsEnabled() (bool, error) {
	err := exec.Command("reg", "query", runKey, "/v", m.appName).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("failed to query Run key: %w", err)
}
