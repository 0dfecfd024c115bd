// Package app wires the pindeck daemon together: plugin initialization,
// panel window creation and placement, and the handoff to the host event
// loop.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pindeck/pindeck/internal/capture"
	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/host"
	"github.com/pindeck/pindeck/internal/plugin"
)

// MainWindowLabel is the registry key for the panel window.
const MainWindowLabel = "main"

var (
	// ErrNoPanel is returned by panel operations when no panel window
	// exists (panel disabled, or creation failed at startup).
	ErrNoPanel = errors.New("no panel window")

	// ErrNoMonitor is returned by Reposition when no primary monitor is
	// available to place the panel against.
	ErrNoMonitor = errors.New("no primary monitor available")
)

// Phase tracks bootstrap progress.
type Phase int32

const (
	PhaseInit Phase = iota
	PhasePluginsRegistered
	PhaseWindowReady
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhasePluginsRegistered:
		return "plugins-registered"
	case PhaseWindowReady:
		return "window-ready"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// App owns the daemon lifecycle. Bootstrap and Run execute on the main
// goroutine; the remaining methods are safe to call from IPC and hotkey
// handlers once Run has been entered.
type App struct {
	mu        sync.RWMutex
	cfg       *config.Config
	hst       host.Host
	log       *slog.Logger
	plugins   []plugin.Plugin
	phase     atomic.Int32
	startTime time.Time
}

func New(cfg *config.Config, hst host.Host, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg:       cfg,
		hst:       hst,
		log:       log,
		startTime: time.Now(),
	}
}

// Register appends plugins to the initialization chain. Bootstrap invokes
// each plugin's Init hook exactly once, in registration order.
func (a *App) Register(plugins ...plugin.Plugin) {
	a.plugins = append(a.plugins, plugins...)
}

// Bootstrap runs the startup sequence: initialize plugins, create the
// panel window, exclude it from capture, and place it on the primary
// monitor. Window customization is best-effort throughout; only a plugin
// Init failure aborts.
func (a *App) Bootstrap() error {
	for _, p := range a.plugins {
		a.log.Debug("initializing plugin", "plugin", p.Name())
		if err := p.Init(); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}
	a.setPhase(PhasePluginsRegistered)

	if a.cfg.Panel.Enabled {
		_, err := a.hst.CreateWindow(host.WindowOptions{
			Label:       MainWindowLabel,
			Title:       a.cfg.Panel.Title,
			Width:       a.cfg.Panel.Width,
			Height:      a.cfg.Panel.Height,
			AlwaysOnTop: a.cfg.Panel.AlwaysOnTop,
			Visible:     true,
		})
		if err != nil {
			a.log.Warn("panel window creation failed", "error", err)
		}
	}

	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		// Headless pass: hotkeys and IPC still run, window setup is
		// skipped entirely.
		a.log.Info("no panel window, skipping window setup")
		a.setPhase(PhaseWindowReady)
		return nil
	}

	a.excludeFromCapture(win)
	a.placeOnPrimary(win)
	a.setPhase(PhaseWindowReady)
	return nil
}

// Run enters the host event loop and blocks until Quit. A non-nil return
// means the loop failed; the caller treats that as fatal.
func (a *App) Run() error {
	a.setPhase(PhaseRunning)
	if err := a.hst.Run(); err != nil {
		return fmt.Errorf("host event loop: %w", err)
	}
	return nil
}

// Quit stops the host event loop, unblocking Run.
func (a *App) Quit() {
	a.hst.Quit()
}

func (a *App) Phase() Phase {
	return Phase(a.phase.Load())
}

func (a *App) Uptime() time.Duration {
	return time.Since(a.startTime)
}

// Config returns a copy of the active configuration.
func (a *App) Config() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.cfg
}

// Panel retrieves the panel window, if one exists.
func (a *App) Panel() (host.Window, bool) {
	return a.hst.Window(MainWindowLabel)
}

// Monitors lists all connected monitors.
func (a *App) Monitors() ([]geometry.Monitor, error) {
	return a.hst.Monitors()
}

// PrimaryMonitor resolves the primary display; (nil, nil) means none is
// available.
func (a *App) PrimaryMonitor() (*geometry.Monitor, error) {
	return a.hst.PrimaryMonitor()
}

// PlannedPosition computes where the panel belongs on the current
// primary monitor. ok is false when no monitor is available.
func (a *App) PlannedPosition() (geometry.Point, bool) {
	mon, err := a.hst.PrimaryMonitor()
	if err != nil || mon == nil {
		return geometry.Point{}, false
	}
	a.mu.RLock()
	spec := a.cfg.PanelSpec()
	a.mu.RUnlock()
	return geometry.Place(*mon, spec), true
}

// Reposition recomputes the panel placement and applies size, position,
// and the always-on-top flag. Unlike the bootstrap pass, failures are
// returned so explicit requests get a real answer.
func (a *App) Reposition() error {
	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		return ErrNoPanel
	}
	mon, err := a.hst.PrimaryMonitor()
	if err != nil {
		return fmt.Errorf("primary monitor: %w", err)
	}
	if mon == nil {
		return ErrNoMonitor
	}

	a.mu.RLock()
	spec := a.cfg.PanelSpec()
	onTop := a.cfg.Panel.AlwaysOnTop
	a.mu.RUnlock()

	pos := geometry.Place(*mon, spec)
	if err := win.SetSize(spec.Width, spec.Height); err != nil {
		return fmt.Errorf("set size: %w", err)
	}
	if err := win.SetPosition(pos.X, pos.Y); err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	if err := win.SetAlwaysOnTop(onTop); err != nil {
		return fmt.Errorf("set always-on-top: %w", err)
	}
	return nil
}

// PanelSettings carries optional runtime overrides for the panel. Nil
// fields leave the current value untouched.
type PanelSettings struct {
	Width          *float64
	Height         *float64
	VerticalOffset *float64
	AlwaysOnTop    *bool
}

// SetPanel applies runtime panel overrides to the in-memory
// configuration and repositions. The config file on disk is not touched.
func (a *App) SetPanel(s PanelSettings) error {
	a.mu.Lock()
	next := *a.cfg
	if s.Width != nil {
		next.Panel.Width = *s.Width
	}
	if s.Height != nil {
		next.Panel.Height = *s.Height
	}
	if s.VerticalOffset != nil {
		next.Panel.VerticalOffset = *s.VerticalOffset
	}
	if s.AlwaysOnTop != nil {
		next.Panel.AlwaysOnTop = *s.AlwaysOnTop
	}
	if err := next.Validate(); err != nil {
		a.mu.Unlock()
		return err
	}
	a.cfg = &next
	a.mu.Unlock()
	return a.Reposition()
}

func (a *App) ShowPanel() error {
	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		return ErrNoPanel
	}
	return win.Show()
}

func (a *App) HidePanel() error {
	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		return ErrNoPanel
	}
	return win.Hide()
}

func (a *App) TogglePanel() error {
	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		return ErrNoPanel
	}
	if win.Visible() {
		return win.Hide()
	}
	return win.Show()
}

// ReloadConfig re-reads the configuration from disk, swaps it in, and
// pushes panel settings to the live window.
func (a *App) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.log.Info("configuration reloaded")

	win, ok := a.hst.Window(MainWindowLabel)
	if !ok {
		return nil
	}
	if !cfg.Panel.Enabled {
		a.bestEffort("hide", win.Hide)
		return nil
	}
	if err := a.Reposition(); err != nil {
		a.log.Warn("reposition after reload failed", "error", err)
	}
	return nil
}

func (a *App) setPhase(p Phase) {
	a.phase.Store(int32(p))
	a.log.Debug("bootstrap phase", "phase", p.String())
}

// bestEffort applies a single window mutation and swallows failure, so a
// degraded customization never blocks startup.
func (a *App) bestEffort(op string, fn func() error) {
	if err := fn(); err != nil {
		a.log.Warn("panel setup step failed", "op", op, "error", err)
	}
}

func (a *App) excludeFromCapture(win host.Window) {
	strat := capture.ForPlatform()
	if !strat.Supported() {
		a.log.Debug("capture exclusion unavailable on this platform")
		return
	}
	handle, err := win.NativeHandle()
	if err != nil {
		// Without a native handle the privacy feature degrades silently.
		a.log.Warn("capture exclusion skipped", "error", err)
		return
	}
	a.bestEffort("capture exclusion", func() error { return strat.Exclude(handle) })
}

// placeOnPrimary sizes and positions the panel against the primary
// monitor. An absent monitor leaves the host-assigned placement
// untouched, and every setter is applied independently.
func (a *App) placeOnPrimary(win host.Window) {
	mon, err := a.hst.PrimaryMonitor()
	if err != nil {
		a.log.Warn("primary monitor query failed", "error", err)
		return
	}
	if mon == nil {
		a.log.Info("no primary monitor, keeping default panel placement")
		return
	}

	spec := a.cfg.PanelSpec()
	pos := geometry.Place(*mon, spec)
	a.log.Debug("placing panel",
		"monitor", mon.Name,
		"scale", mon.ScaleFactor,
		"x", pos.X,
		"y", pos.Y,
	)
	a.bestEffort("size", func() error { return win.SetSize(spec.Width, spec.Height) })
	a.bestEffort("position", func() error { return win.SetPosition(pos.X, pos.Y) })
	a.bestEffort("always-on-top", func() error { return win.SetAlwaysOnTop(a.cfg.Panel.AlwaysOnTop) })
}
