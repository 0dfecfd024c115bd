//go:build windows

package host

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/win32"
)

// win32Host implements Host with native USER32 windows. The goroutine
// calling Connect is locked to its OS thread and must also be the one
// that creates windows and runs the loop: Win32 delivers a window's
// messages to the thread that created it.
type win32Host struct {
	scaleOverride float64
	threadID      uint32

	mu      sync.RWMutex
	windows map[string]*win32Window
}

// Connect prepares the native windowing backend.
func Connect(opts Options) (Host, error) {
	runtime.LockOSThread()

	if err := win32.EnablePerMonitorDPI(); err != nil {
		// Process stays at default awareness; coordinates still work
	}

	return &win32Host{
		scaleOverride: opts.ScaleOverride,
		threadID:      win32.CurrentThreadID(),
		windows:       make(map[string]*win32Window),
	}, nil
}

func (h *win32Host) CreateWindow(opts WindowOptions) (Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.windows[opts.Label]; exists {
		return nil, fmt.Errorf("window %q already exists", opts.Label)
	}

	scale := h.primaryScale()
	native, err := win32.CreateWindow(opts.Title, 0, 0,
		geometry.ToPhysical(opts.Width, scale),
		geometry.ToPhysical(opts.Height, scale),
		opts.AlwaysOnTop)
	if err != nil {
		return nil, fmt.Errorf("failed to create window %q: %w", opts.Label, err)
	}

	w := &win32Window{host: h, label: opts.Label, native: native}

	// Closing the panel hides it; the daemon keeps running.
	native.OnCloseRequest(func() { w.Hide() })

	if opts.Visible {
		native.Show()
	}

	h.windows[opts.Label] = w
	return w, nil
}

func (h *win32Host) Window(label string) (Window, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w, ok := h.windows[label]
	return w, ok
}

func (h *win32Host) PrimaryMonitor() (*geometry.Monitor, error) {
	return win32.PrimaryMonitor(h.scaleOverride)
}

func (h *win32Host) Monitors() ([]geometry.Monitor, error) {
	return win32.Monitors(h.scaleOverride)
}

// primaryScale is the conversion factor for logical window dimensions.
func (h *win32Host) primaryScale() float64 {
	if h.scaleOverride > 0 {
		return h.scaleOverride
	}
	mon, err := win32.PrimaryMonitor(0)
	if err != nil || mon == nil {
		return 1.0
	}
	return mon.ScaleFactor
}

func (h *win32Host) Run() error {
	return win32.RunLoop()
}

func (h *win32Host) Quit() {
	win32.QuitLoop(h.threadID)
}

func (h *win32Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, w := range h.windows {
		w.native.Destroy()
	}
	h.windows = make(map[string]*win32Window)
}

// win32Window adapts a native window to the Window interface, converting
// between logical and physical pixels at the boundary.
type win32Window struct {
	host   *win32Host
	label  string
	native *win32.Window
}

func (w *win32Window) Label() string {
	return w.label
}

func (w *win32Window) scale() float64 {
	return w.host.primaryScale()
}

func (w *win32Window) SetSize(width, height float64) error {
	s := w.scale()
	return w.native.SetSize(geometry.ToPhysical(width, s), geometry.ToPhysical(height, s))
}

func (w *win32Window) SetPosition(x, y float64) error {
	s := w.scale()
	return w.native.SetPosition(geometry.ToPhysical(x, s), geometry.ToPhysical(y, s))
}

func (w *win32Window) SetAlwaysOnTop(onTop bool) error {
	return w.native.SetAlwaysOnTop(onTop)
}

func (w *win32Window) Show() error {
	w.native.Show()
	return nil
}

func (w *win32Window) Hide() error {
	w.native.Hide()
	return nil
}

func (w *win32Window) Visible() bool {
	return w.native.Visible()
}

func (w *win32Window) Geometry() (geometry.Rect, error) {
	x, y, width, height, err := w.native.Geometry()
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

func (w *win32Window) NativeHandle() (uintptr, error) {
	return w.native.Handle(), nil
}
