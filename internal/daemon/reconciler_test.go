package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pindeck/pindeck/internal/geometry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcileNow_RepositionsOnDrift(t *testing.T) {
	calls := 0
	r := NewReconciler(ReconcilerConfig{Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{X: 750, Y: 90}, true },
		func() (geometry.Rect, bool) { return geometry.Rect{X: 100, Y: 100}, true },
		func() error { calls++; return nil },
	)

	r.ReconcileNow()
	if calls != 1 {
		t.Fatalf("expected 1 reposition, got %d", calls)
	}
}

func TestReconcileNow_ToleratesSmallDrift(t *testing.T) {
	calls := 0
	r := NewReconciler(ReconcilerConfig{Tolerance: 2.0, Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{X: 750, Y: 90}, true },
		// Off by a rounding error, not real drift.
		func() (geometry.Rect, bool) { return geometry.Rect{X: 749.5, Y: 90.5}, true },
		func() error { calls++; return nil },
	)

	r.ReconcileNow()
	if calls != 0 {
		t.Fatalf("expected no reposition within tolerance, got %d", calls)
	}
}

func TestReconcileNow_SkipsWithoutMonitor(t *testing.T) {
	calls := 0
	r := NewReconciler(ReconcilerConfig{Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{}, false },
		func() (geometry.Rect, bool) { t.Fatal("geometry queried without a monitor"); return geometry.Rect{}, false },
		func() error { calls++; return nil },
	)

	r.ReconcileNow()
	if calls != 0 {
		t.Fatalf("expected no reposition without a monitor, got %d", calls)
	}
}

func TestReconcileNow_SkipsWithoutPanel(t *testing.T) {
	calls := 0
	r := NewReconciler(ReconcilerConfig{Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{X: 750, Y: 90}, true },
		func() (geometry.Rect, bool) { return geometry.Rect{}, false },
		func() error { calls++; return nil },
	)

	r.ReconcileNow()
	if calls != 0 {
		t.Fatalf("expected no reposition without a panel, got %d", calls)
	}
}

func TestReconcileNow_RecoversFromPanic(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Logger: testLogger()},
		func() (geometry.Point, bool) { panic("query exploded") },
		func() (geometry.Rect, bool) { return geometry.Rect{}, false },
		func() error { return nil },
	)

	// Must not propagate the panic.
	r.ReconcileNow()
}

func TestReconcileNow_RepositionErrorIsSwallowed(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{X: 750, Y: 90}, true },
		func() (geometry.Rect, bool) { return geometry.Rect{X: 0, Y: 0}, true },
		func() error { return errors.New("setter rejected") },
	)

	// A failed reposition is retried next tick; the pass itself must not
	// panic or abort.
	r.ReconcileNow()
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Interval: time.Hour, Logger: testLogger()},
		func() (geometry.Point, bool) { return geometry.Point{}, false },
		func() (geometry.Rect, bool) { return geometry.Rect{}, false },
		func() error { return nil },
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}
