package app

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/host"
	"github.com/pindeck/pindeck/internal/plugin"
)

type fakeWindow struct {
	label   string
	visible bool
	width   float64
	height  float64
	x       float64
	y       float64
	onTop   bool

	sizeCalls int
	posCalls  int
	topCalls  int
	showCalls int
	hideCalls int

	sizeErr error
	posErr  error
	topErr  error
}

func (w *fakeWindow) Label() string { return w.label }

func (w *fakeWindow) SetSize(width, height float64) error {
	w.sizeCalls++
	if w.sizeErr != nil {
		return w.sizeErr
	}
	w.width, w.height = width, height
	return nil
}

func (w *fakeWindow) SetPosition(x, y float64) error {
	w.posCalls++
	if w.posErr != nil {
		return w.posErr
	}
	w.x, w.y = x, y
	return nil
}

func (w *fakeWindow) SetAlwaysOnTop(onTop bool) error {
	w.topCalls++
	if w.topErr != nil {
		return w.topErr
	}
	w.onTop = onTop
	return nil
}

func (w *fakeWindow) Show() error {
	w.showCalls++
	w.visible = true
	return nil
}

func (w *fakeWindow) Hide() error {
	w.hideCalls++
	w.visible = false
	return nil
}

func (w *fakeWindow) Visible() bool { return w.visible }

func (w *fakeWindow) Geometry() (geometry.Rect, error) {
	return geometry.Rect{X: w.x, Y: w.y, Width: w.width, Height: w.height}, nil
}

func (w *fakeWindow) NativeHandle() (uintptr, error) { return 42, nil }

type fakeHost struct {
	windows      map[string]*fakeWindow
	monitor      *geometry.Monitor
	monErr       error
	monitorCalls int
	createErr    error
	runErr       error
	quitCalls    int
}

func newFakeHost() *fakeHost {
	return &fakeHost{windows: make(map[string]*fakeWindow)}
}

func (h *fakeHost) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	w := &fakeWindow{
		label:   opts.Label,
		visible: opts.Visible,
		width:   opts.Width,
		height:  opts.Height,
		onTop:   opts.AlwaysOnTop,
	}
	h.windows[opts.Label] = w
	return w, nil
}

func (h *fakeHost) Window(label string) (host.Window, bool) {
	w, ok := h.windows[label]
	if !ok {
		return nil, false
	}
	return w, true
}

func (h *fakeHost) PrimaryMonitor() (*geometry.Monitor, error) {
	h.monitorCalls++
	return h.monitor, h.monErr
}

func (h *fakeHost) Monitors() ([]geometry.Monitor, error) {
	if h.monitor == nil {
		return nil, nil
	}
	return []geometry.Monitor{*h.monitor}, nil
}

func (h *fakeHost) Run() error { return h.runErr }
func (h *fakeHost) Quit()      { h.quitCalls++ }
func (h *fakeHost) Close()     {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hidpiMonitor is a 4K display at 200% scale: logical 1920x1080 at (0,0).
func hidpiMonitor() *geometry.Monitor {
	return &geometry.Monitor{
		Name:        "DP-1",
		Width:       3840,
		Height:      2160,
		ScaleFactor: 2.0,
		Primary:     true,
	}
}

func TestBootstrap_PlacesPanelOnPrimary(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	win := h.windows[MainWindowLabel]
	if win == nil {
		t.Fatal("expected panel window to be created")
	}
	// 420x300 panel centered on a 1920x1080 logical monitor, raised 300.
	if win.x != 750 || win.y != 90 {
		t.Errorf("expected position (750, 90), got (%v, %v)", win.x, win.y)
	}
	if win.width != 420 || win.height != 300 {
		t.Errorf("expected size 420x300, got %vx%v", win.width, win.height)
	}
	if !win.onTop {
		t.Error("expected panel to be always-on-top")
	}
	if got := a.Phase(); got != PhaseWindowReady {
		t.Errorf("expected phase window-ready, got %v", got)
	}
}

func TestBootstrap_OffsetOriginMonitor(t *testing.T) {
	h := newFakeHost()
	h.monitor = &geometry.Monitor{
		Name:        "HDMI-1",
		X:           100,
		Y:           50,
		Width:       1920,
		Height:      1080,
		ScaleFactor: 1.0,
		Primary:     true,
	}
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	win := h.windows[MainWindowLabel]
	if win.x != 850 || win.y != 140 {
		t.Errorf("expected position (850, 140), got (%v, %v)", win.x, win.y)
	}
}

func TestBootstrap_AbsentWindowSkipsSetup(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	cfg := config.DefaultConfig()
	cfg.Panel.Enabled = false
	a := New(cfg, h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	if h.monitorCalls != 0 {
		t.Errorf("expected no monitor query without a window, got %d", h.monitorCalls)
	}
	if len(h.windows) != 0 {
		t.Error("expected no window to be created")
	}
	if got := a.Phase(); got != PhaseWindowReady {
		t.Errorf("expected phase window-ready, got %v", got)
	}
}

func TestBootstrap_WindowCreationFailureIsNotFatal(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	h.createErr = errors.New("backend rejected window")
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("expected creation failure to degrade, got %v", err)
	}
	if h.monitorCalls != 0 {
		t.Error("expected setup to be skipped when creation fails")
	}
}

func TestBootstrap_AbsentMonitorSkipsSetters(t *testing.T) {
	h := newFakeHost()
	// PrimaryMonitor returns (nil, nil): no monitor, not an error.
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	win := h.windows[MainWindowLabel]
	if win.sizeCalls != 0 || win.posCalls != 0 || win.topCalls != 0 {
		t.Errorf("expected no setter calls without a monitor, got size=%d pos=%d top=%d",
			win.sizeCalls, win.posCalls, win.topCalls)
	}
}

func TestBootstrap_SetterFailuresAreIsolated(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	win := h.windows[MainWindowLabel]

	// Re-run placement with a failing size setter; the later setters
	// must still be attempted.
	win.sizeErr = errors.New("size rejected")
	win.posCalls, win.topCalls = 0, 0
	a.placeOnPrimary(win)

	if win.posCalls != 1 {
		t.Errorf("expected position attempt despite size failure, got %d", win.posCalls)
	}
	if win.topCalls != 1 {
		t.Errorf("expected always-on-top attempt despite size failure, got %d", win.topCalls)
	}
}

func TestBootstrap_PluginsInitInOrder(t *testing.T) {
	h := newFakeHost()
	a := New(config.DefaultConfig(), h, testLogger())

	var calls []string
	recorder := func(name string, err error) plugin.Func {
		return plugin.Func{
			PluginName: name,
			InitFunc: func() error {
				calls = append(calls, name)
				return err
			},
		}
	}
	a.Register(
		recorder("autostart", nil),
		recorder("process", nil),
		recorder("updater", nil),
		recorder("opener", nil),
	)

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	want := []string{"autostart", "process", "updater", "opener"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d init calls, got %d", len(want), len(calls))
	}
	for i, name := range want {
		if calls[i] != name {
			t.Errorf("expected init %d to be %s, got %s", i, name, calls[i])
		}
	}
}

func TestBootstrap_PluginFailureAborts(t *testing.T) {
	h := newFakeHost()
	a := New(config.DefaultConfig(), h, testLogger())

	var calls []string
	bad := errors.New("hook exploded")
	recorder := func(name string, err error) plugin.Func {
		return plugin.Func{
			PluginName: name,
			InitFunc: func() error {
				calls = append(calls, name)
				return err
			},
		}
	}
	a.Register(
		recorder("first", nil),
		recorder("second", bad),
		recorder("third", nil),
	)

	err := a.Bootstrap()
	if !errors.Is(err, bad) {
		t.Fatalf("expected plugin error, got %v", err)
	}
	if len(calls) != 2 {
		t.Errorf("expected init to stop after the failing plugin, got %v", calls)
	}
	if len(h.windows) != 0 {
		t.Error("expected no window after plugin failure")
	}
	if got := a.Phase(); got != PhaseInit {
		t.Errorf("expected phase init after abort, got %v", got)
	}
}

func TestRun_PropagatesLoopFailure(t *testing.T) {
	h := newFakeHost()
	h.runErr = errors.New("display connection lost")
	a := New(config.DefaultConfig(), h, testLogger())

	err := a.Run()
	if err == nil {
		t.Fatal("expected loop failure to propagate")
	}
	if !errors.Is(err, h.runErr) {
		t.Errorf("expected wrapped loop error, got %v", err)
	}
	if got := a.Phase(); got != PhaseRunning {
		t.Errorf("expected phase running, got %v", got)
	}
}

func TestReposition_Errors(t *testing.T) {
	h := newFakeHost()
	a := New(config.DefaultConfig(), h, testLogger())

	if err := a.Reposition(); !errors.Is(err, ErrNoPanel) {
		t.Errorf("expected ErrNoPanel, got %v", err)
	}

	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if err := a.Reposition(); !errors.Is(err, ErrNoMonitor) {
		t.Errorf("expected ErrNoMonitor, got %v", err)
	}

	h.monitor = hidpiMonitor()
	if err := a.Reposition(); err != nil {
		t.Errorf("expected reposition to succeed with a monitor, got %v", err)
	}
}

func TestSetPanel_AppliesOverrides(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	a := New(config.DefaultConfig(), h, testLogger())
	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	width := 600.0
	if err := a.SetPanel(PanelSettings{Width: &width}); err != nil {
		t.Fatalf("SetPanel failed: %v", err)
	}

	win := h.windows[MainWindowLabel]
	if win.width != 600 {
		t.Errorf("expected width 600, got %v", win.width)
	}
	// x = (1920 - 600) / 2 on the logical monitor.
	if win.x != 660 {
		t.Errorf("expected recentered x 660, got %v", win.x)
	}
	if got := a.Config().Panel.Width; got != 600 {
		t.Errorf("expected config width 600, got %v", got)
	}
}

func TestSetPanel_RejectsInvalidOverride(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	a := New(config.DefaultConfig(), h, testLogger())
	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	width := -5.0
	if err := a.SetPanel(PanelSettings{Width: &width}); err == nil {
		t.Fatal("expected negative width to be rejected")
	}
	if got := a.Config().Panel.Width; got != 420 {
		t.Errorf("expected config width to stay 420, got %v", got)
	}
}

func TestTogglePanel(t *testing.T) {
	h := newFakeHost()
	h.monitor = hidpiMonitor()
	a := New(config.DefaultConfig(), h, testLogger())
	if err := a.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	win := h.windows[MainWindowLabel]

	if err := a.TogglePanel(); err != nil {
		t.Fatalf("TogglePanel failed: %v", err)
	}
	if win.visible {
		t.Error("expected panel hidden after first toggle")
	}
	if err := a.TogglePanel(); err != nil {
		t.Fatalf("TogglePanel failed: %v", err)
	}
	if !win.visible {
		t.Error("expected panel visible after second toggle")
	}
}

func TestPlannedPosition(t *testing.T) {
	h := newFakeHost()
	a := New(config.DefaultConfig(), h, testLogger())

	if _, ok := a.PlannedPosition(); ok {
		t.Error("expected no planned position without a monitor")
	}

	h.monitor = hidpiMonitor()
	pos, ok := a.PlannedPosition()
	if !ok {
		t.Fatal("expected a planned position")
	}
	if pos.X != 750 || pos.Y != 90 {
		t.Errorf("expected (750, 90), got (%v, %v)", pos.X, pos.Y)
	}
}
