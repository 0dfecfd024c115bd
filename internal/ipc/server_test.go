package ipc

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/pindeck/pindeck/internal/app"
	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/host"
	"github.com/pindeck/pindeck/internal/plugin/opener"
	"github.com/pindeck/pindeck/internal/plugin/updater"
)

// stubHost is a windowless host: every panel operation reports absence.
type stubHost struct{}

func (stubHost) CreateWindow(host.WindowOptions) (host.Window, error) {
	return nil, errors.New("no windows in tests")
}
func (stubHost) Window(string) (host.Window, bool) { return nil, false }
func (stubHost) PrimaryMonitor() (*geometry.Monitor, error) {
	return nil, nil
}
func (stubHost) Monitors() ([]geometry.Monitor, error) {
	return []geometry.Monitor{
		{Name: "FAKE-1", Width: 1920, Height: 1080, ScaleFactor: 1.0, Primary: true},
	}, nil
}
func (stubHost) Run() error { return nil }
func (stubHost) Quit()      {}
func (stubHost) Close()     {}

func startTestServer(t *testing.T) (*Client, chan Control) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(config.DefaultConfig(), stubHost{}, logger)
	upd := updater.New(updater.Config{Logger: logger})
	op := opener.New(logger)

	ctrl := make(chan Control, 4)
	srv, err := NewServer(a, "0.5.0-test", upd, op, ctrl)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewClient(), ctrl
}

func waitControl(t *testing.T, ctrl chan Control, want Control) {
	t.Helper()
	select {
	case got := <-ctrl:
		if got != want {
			t.Fatalf("expected control %v, got %v", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected control %v, got none", want)
	}
}

func TestServer_Ping(t *testing.T) {
	client, _ := startTestServer(t)
	if err := client.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestServer_GetStatus(t *testing.T) {
	client, _ := startTestServer(t)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if !status.DaemonRunning {
		t.Error("expected daemon_running true")
	}
	if status.Version != "0.5.0-test" {
		t.Errorf("expected version 0.5.0-test, got %q", status.Version)
	}
	if status.Phase != "init" {
		t.Errorf("expected phase init before bootstrap, got %q", status.Phase)
	}
	if status.Panel != nil {
		t.Error("expected no panel info from a windowless host")
	}
}

func TestServer_GetMonitors(t *testing.T) {
	client, _ := startTestServer(t)

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors failed: %v", err)
	}
	if len(monitors.Monitors) != 1 {
		t.Fatalf("expected 1 monitor, got %d", len(monitors.Monitors))
	}
	m := monitors.Monitors[0]
	if m.Name != "FAKE-1" || !m.Primary || m.ScaleFactor != 1.0 {
		t.Errorf("unexpected monitor info: %+v", m)
	}
}

func TestServer_RepositionWithoutPanel(t *testing.T) {
	client, _ := startTestServer(t)

	err := client.Reposition()
	if err == nil {
		t.Fatal("expected reposition to fail without a panel")
	}
	if !strings.Contains(err.Error(), "no panel window") {
		t.Errorf("expected no-panel error, got %v", err)
	}
}

func TestServer_CheckUpdateDisabled(t *testing.T) {
	client, _ := startTestServer(t)

	_, err := client.CheckUpdate()
	if err == nil {
		t.Fatal("expected disabled updater error")
	}
	if !strings.Contains(err.Error(), "disabled") {
		t.Errorf("expected disabled error, got %v", err)
	}
}

func TestServer_OpenRejectsBadScheme(t *testing.T) {
	client, _ := startTestServer(t)

	err := client.Open("file:///etc/passwd")
	if err == nil {
		t.Fatal("expected file scheme to be rejected")
	}
}

func TestServer_ReloadNotifiesDaemon(t *testing.T) {
	client, ctrl := startTestServer(t)

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	waitControl(t, ctrl, ControlReload)
}

func TestServer_RestartRespondsBeforeControl(t *testing.T) {
	client, ctrl := startTestServer(t)

	if err := client.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	waitControl(t, ctrl, ControlRestart)
}

func TestServer_Quit(t *testing.T) {
	client, ctrl := startTestServer(t)

	if err := client.Quit(); err != nil {
		t.Fatalf("Quit failed: %v", err)
	}
	waitControl(t, ctrl, ControlQuit)
}

func TestServer_UnknownCommand(t *testing.T) {
	client, _ := startTestServer(t)

	_, err := client.sendRequest(&Request{Command: "BOGUS"})
	if err == nil {
		t.Fatal("expected unknown command error")
	}
	if !strings.Contains(err.Error(), "Unknown command") {
		t.Errorf("expected unknown-command error, got %v", err)
	}
}
