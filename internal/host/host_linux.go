//go:build linux

package host

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/x11"
)

// wmClass is the WM_CLASS instance/class applied to every pindeck window.
const wmClass = "pindeck"

// x11Host implements Host on top of an X11 connection, tracking created
// windows in a label-keyed registry.
type x11Host struct {
	conn *x11.Connection
	quit atomic.Bool

	mu      sync.RWMutex
	windows map[string]*x11Window
}

// Connect opens the platform windowing backend. On Linux that is X11.
func Connect(opts Options) (Host, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	conn.OverrideScaleFactor(opts.ScaleOverride)

	return &x11Host{
		conn:    conn,
		windows: make(map[string]*x11Window),
	}, nil
}

func (h *x11Host) CreateWindow(opts WindowOptions) (Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.windows[opts.Label]; exists {
		return nil, fmt.Errorf("window %q already exists", opts.Label)
	}

	scale := h.conn.ScaleFactor()
	panel, err := x11.CreatePanelWindow(h.conn, x11.PanelOptions{
		Title:       opts.Title,
		Class:       wmClass,
		Width:       geometry.ToPhysical(opts.Width, scale),
		Height:      geometry.ToPhysical(opts.Height, scale),
		AlwaysOnTop: opts.AlwaysOnTop,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window %q: %w", opts.Label, err)
	}

	if err := panel.SetIcon(); err != nil {
		// Icon failures don't affect function - keep going
	}

	w := &x11Window{host: h, label: opts.Label, panel: panel}

	// Closing the panel hides it; the daemon keeps running.
	panel.OnCloseRequest(func() { w.Hide() })

	if opts.Visible {
		panel.Map()
	}

	h.windows[opts.Label] = w
	return w, nil
}

func (h *x11Host) Window(label string) (Window, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w, ok := h.windows[label]
	return w, ok
}

func (h *x11Host) PrimaryMonitor() (*geometry.Monitor, error) {
	return h.conn.PrimaryMonitor()
}

func (h *x11Host) Monitors() ([]geometry.Monitor, error) {
	return h.conn.Monitors()
}

// Run blocks in the X11 event loop. A return without a prior Quit call
// means the loop died underneath us, which is reported as an error.
func (h *x11Host) Run() error {
	h.conn.EventLoop()
	if !h.quit.Load() {
		return errors.New("X11 event loop terminated unexpectedly (connection lost?)")
	}
	return nil
}

func (h *x11Host) Quit() {
	h.quit.Store(true)
	h.conn.Quit()
}

func (h *x11Host) Close() {
	h.conn.Close()
}

// XUtil exposes the underlying xgbutil connection for components that bind
// X11-specific behavior, such as global hotkeys.
func (h *x11Host) XUtil() *xgbutil.XUtil {
	return h.conn.XUtil
}

// RootWindow returns the X root window.
func (h *x11Host) RootWindow() xproto.Window {
	return h.conn.Root
}

// x11Window adapts a PanelWindow to the Window interface, converting
// between logical and physical pixels at the boundary.
type x11Window struct {
	host  *x11Host
	label string
	panel *x11.PanelWindow
}

func (w *x11Window) Label() string {
	return w.label
}

func (w *x11Window) scale() float64 {
	return w.host.conn.ScaleFactor()
}

func (w *x11Window) SetSize(width, height float64) error {
	s := w.scale()
	return w.panel.Resize(geometry.ToPhysical(width, s), geometry.ToPhysical(height, s))
}

func (w *x11Window) SetPosition(x, y float64) error {
	s := w.scale()
	return w.panel.Move(geometry.ToPhysical(x, s), geometry.ToPhysical(y, s))
}

func (w *x11Window) SetAlwaysOnTop(onTop bool) error {
	return w.panel.SetAlwaysOnTop(onTop)
}

func (w *x11Window) Show() error {
	w.panel.Map()
	if err := w.panel.Activate(); err != nil {
		// Focus is best effort; the window is visible regardless
	}
	return nil
}

func (w *x11Window) Hide() error {
	w.panel.Unmap()
	return nil
}

func (w *x11Window) Visible() bool {
	return w.panel.Mapped()
}

func (w *x11Window) Geometry() (geometry.Rect, error) {
	x, y, width, height, err := w.panel.Geometry()
	if err != nil {
		return geometry.Rect{}, err
	}

	s := w.scale()
	return geometry.Rect{
		X:      geometry.ToLogical(x, s),
		Y:      geometry.ToLogical(y, s),
		Width:  geometry.ToLogical(width, s),
		Height: geometry.ToLogical(height, s),
	}, nil
}

func (w *x11Window) NativeHandle() (uintptr, error) {
	return uintptr(w.panel.Id()), nil
}
