package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("panel:\n  width: 420\n"), 0644); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	changed := make(chan struct{}, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, logger)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// Give the watch goroutine a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("panel:\n  width: 500\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected change notification, got none")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("panel:\n  width: 420\n"), 0644); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	changed := make(chan struct{}, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, logger)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("expected no notification for sibling file")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, func() {}, logger)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
	w.Stop()
}
