package host

import (
	"errors"

	"github.com/pindeck/pindeck/internal/geometry"
)

// ErrUnsupported is returned by Connect on platforms without a
// windowing backend.
var ErrUnsupported = errors.New("host: no windowing backend for this platform")

// Options configures the host connection.
type Options struct {
	// ScaleOverride forces the reported monitor scale factor when > 0.
	ScaleOverride float64
}

// WindowOptions describes a window to create. Width and Height are
// logical pixels.
type WindowOptions struct {
	Label       string
	Title       string
	Width       float64
	Height      float64
	AlwaysOnTop bool
	Visible     bool
}

// Window is a top-level window owned by the host runtime. Size and
// position setters take logical pixels; the host converts to device
// pixels using the active monitor scale factor.
type Window interface {
	Label() string
	SetSize(width, height float64) error
	SetPosition(x, y float64) error
	SetAlwaysOnTop(onTop bool) error
	Show() error
	Hide() error
	Visible() bool
	// Geometry returns the window's current logical rectangle.
	Geometry() (geometry.Rect, error)
	// NativeHandle returns the platform window identifier (HWND on
	// Windows, the X window ID elsewhere) for native calls.
	NativeHandle() (uintptr, error)
}

// Host abstracts the windowing system: a label-keyed window registry,
// monitor queries, and the blocking event loop.
type Host interface {
	CreateWindow(opts WindowOptions) (Window, error)
	// Window retrieves a previously created window by label.
	Window(label string) (Window, bool)
	// PrimaryMonitor resolves the primary display. A (nil, nil) return
	// means no primary monitor is available; callers skip placement for
	// that pass rather than treating it as an error.
	PrimaryMonitor() (*geometry.Monitor, error)
	Monitors() ([]geometry.Monitor, error)
	// Run enters the platform event loop and blocks until Quit or a
	// loop failure.
	Run() error
	Quit()
	Close()
}
