package daemon

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pindeck/pindeck/internal/geometry"
)

// PositionFunc returns the planned panel position. ok is false when no
// monitor is available to place against.
type PositionFunc func() (geometry.Point, bool)

// GeometryFunc returns the panel's current logical rectangle. ok is
// false when no panel window exists.
type GeometryFunc func() (geometry.Rect, bool)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	// Tolerance is the drift allowance in logical pixels. Fractional
	// scale factors round through device pixels, so exact matches can't
	// be expected.
	Tolerance float64
	Logger    *slog.Logger
}

// Reconciler periodically compares the panel's actual position against
// its planned placement and repositions on drift (monitor hotplug,
// resolution changes, window-manager interference).
type Reconciler struct {
	interval   time.Duration
	tolerance  float64
	desired    PositionFunc
	actual     GeometryFunc
	reposition func() error
	logger     *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, desired PositionFunc, actual GeometryFunc, reposition func() error) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = 2.0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:   interval,
		tolerance:  tolerance,
		desired:    desired,
		actual:     actual,
		reposition: reposition,
		logger:     logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	desired, ok := r.desired()
	if !ok {
		// No monitor to place against; nothing to converge on.
		return
	}

	actual, ok := r.actual()
	if !ok {
		return
	}

	dx := math.Abs(actual.X - desired.X)
	dy := math.Abs(actual.Y - desired.Y)
	if dx <= r.tolerance && dy <= r.tolerance {
		return
	}

	r.logger.Info("panel drifted from planned position",
		"actual_x", actual.X,
		"actual_y", actual.Y,
		"planned_x", desired.X,
		"planned_y", desired.Y)

	if err := r.reposition(); err != nil {
		r.logger.Warn("reconciler: reposition failed", "error", err)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
