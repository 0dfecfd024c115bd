// Package autostart installs pindeck into the platform's login-launch
// mechanism: an XDG autostart entry on Linux, a launchd agent on macOS,
// and the HKCU Run key on Windows.
package autostart

import (
	"fmt"
	"log/slog"
	"os"
)

// Mode selects the launchd flavor used on macOS. It has no effect on the
// other platforms and is fixed when the plugin is registered.
type Mode int

const (
	// LaunchAgent installs a per-user agent started at login.
	LaunchAgent Mode = iota
	// LaunchDaemon installs a system-wide daemon started at boot.
	LaunchDaemon
)

func (m Mode) String() string {
	if m == LaunchDaemon {
		return "launch-daemon"
	}
	return "launch-agent"
}

// Manager installs and removes the login entry for the current user.
type Manager struct {
	appName  string
	execPath string
	args     []string
	mode     Mode
}

// NewManager resolves the running executable and returns a manager for
// it. args are appended to the launch command line.
func NewManager(appName string, mode Mode, args ...string) (*Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return &Manager{appName: appName, execPath: exe, args: args, mode: mode}, nil
}

// Mode returns the launchd flavor this manager was registered with.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Plugin reconciles the configured autostart preference at startup.
type Plugin struct {
	manager *Manager
	enabled bool
	log     *slog.Logger
}

// NewPlugin wraps manager as a startup hook. enabled is the configured
// preference the hook converges the system toward.
func NewPlugin(manager *Manager, enabled bool, log *slog.Logger) *Plugin {
	return &Plugin{manager: manager, enabled: enabled, log: log}
}

func (p *Plugin) Name() string {
	return "autostart"
}

// Init applies the configured preference. A login entry that already
// matches is left alone.
func (p *Plugin) Init() error {
	installed, err := p.manager.IsEnabled()
	if err != nil {
		return fmt.Errorf("failed to query autostart state: %w", err)
	}
	if installed == p.enabled {
		return nil
	}

	if p.enabled {
		if err := p.manager.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		p.log.Info("autostart enabled", "mode", p.manager.Mode().String())
		return nil
	}

	if err := p.manager.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	p.log.Info("autostart disabled")
	return nil
}

// Update changes the configured preference and reconciles immediately.
// Used when the configuration is reloaded at runtime.
func (p *Plugin) Update(enabled bool) error {
	p.enabled = enabled
	return p.Init()
}
