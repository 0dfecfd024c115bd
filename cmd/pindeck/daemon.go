package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pindeck/pindeck/internal/app"
	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/daemon"
	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/host"
	"github.com/pindeck/pindeck/internal/hotkeys"
	"github.com/pindeck/pindeck/internal/ipc"
	"github.com/pindeck/pindeck/internal/plugin/autostart"
	"github.com/pindeck/pindeck/internal/plugin/opener"
	"github.com/pindeck/pindeck/internal/plugin/process"
	"github.com/pindeck/pindeck/internal/plugin/updater"
)

func runDaemonCmd(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	headless := fs.Bool("headless", false, "Run without creating the panel window")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck daemon [--headless]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the pindeck daemon in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}
	runDaemon(*headless)
	return 0
}

func runDaemon(headless bool) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if headless {
		cfg.Panel.Enabled = false
	}
	log.Printf("Configuration loaded (panel: %gx%g, hotkey: %s)",
		cfg.Panel.Width, cfg.Panel.Height, displayHotkey(cfg.Hotkeys.TogglePanel))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	// Connect to display server
	hst, err := host.Connect(host.Options{ScaleOverride: cfg.ScaleOverride})
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer hst.Close()

	log.Println("pindeck daemon started successfully")

	a := app.New(cfg, hst, logger)

	// Construct plugins. Registration order is also initialization order.
	var autostartPlugin *autostart.Plugin
	autostartManager, err := autostart.NewManager("pindeck", autostart.LaunchAgent, "daemon")
	if err != nil {
		log.Printf("Warning: autostart unavailable: %v", err)
	} else {
		autostartPlugin = autostart.NewPlugin(autostartManager, cfg.Autostart, logger)
		a.Register(autostartPlugin)
	}

	proc := process.NewController(logger)
	upd := updater.New(updater.Config{
		Endpoint:       cfg.Updater.Endpoint,
		CurrentVersion: version,
		Notify:         cfg.Updater.Notify,
		Logger:         logger,
	})
	op := opener.New(logger)
	a.Register(proc, upd, op)

	// Initialize plugins and set up the panel window
	if err := a.Bootstrap(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	log.Printf("Bootstrap complete (phase: %s)", a.Phase())

	// Register panel toggle hotkey if configured
	hotkeyHandler := hotkeys.NewHandler(hst, a)
	if cfg.Hotkeys.TogglePanel != "" {
		if err := hotkeyHandler.Register(cfg.Hotkeys.TogglePanel); err != nil {
			log.Printf("Warning: Failed to register panel toggle hotkey: %v", err)
		} else {
			log.Printf("Panel toggle hotkey registered: %s", cfg.Hotkeys.TogglePanel)
		}
	}

	// Create control channel for reload/restart/quit requests
	ctrl := make(chan ipc.Control, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(a, version, upd, op, ctrl)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Watch the config file so edits apply without a manual reload
	var watcher *config.Watcher
	if watchPath, err := config.DefaultConfigPath(); err == nil {
		watcher, err = config.NewWatcher(watchPath, func() {
			if err := a.ReloadConfig(); err != nil {
				log.Printf("Config reload failed: %v", err)
				return
			}
			select {
			case ctrl <- ipc.ControlReload:
			default:
			}
		}, logger)
		if err != nil {
			log.Printf("Warning: config watcher unavailable: %v", err)
		} else if err := watcher.Start(); err != nil {
			log.Printf("Warning: config watcher failed to start: %v", err)
			watcher = nil
		}
	}

	// Setup position reconciler
	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, a.PlannedPosition, panelGeometry(a), a.Reposition)

	// Run an immediate reconciliation pass on startup in case the window
	// manager moved the panel between creation and placement.
	reconciler.ReconcileNow()

	// Start reconciler in background
	reconcilerCtx, reconcilerCancel := context.WithCancel(context.Background())
	defer reconcilerCancel()
	go reconciler.Run(reconcilerCtx)

	// Start background update checks
	if upd.Enabled() {
		go upd.Watch(reconcilerCtx, time.Duration(cfg.Updater.CheckIntervalHours)*time.Hour)
	}

	cleanup := func() {
		reconcilerCancel()
		if watcher != nil {
			watcher.Stop()
		}
		ipcServer.Stop()
		hst.Close()
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Handle signals and control requests
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					if err := a.ReloadConfig(); err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					applyReload(a, autostartPlugin)
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down pindeck daemon...")
					proc.Exit(0, cleanup)
				}

			case c := <-ctrl:
				switch c {
				case ipc.ControlReload:
					// Config was already reloaded, update daemon-side consumers
					applyReload(a, autostartPlugin)

				case ipc.ControlRestart:
					log.Println("Restarting pindeck daemon...")
					if err := proc.Relaunch(cleanup); err != nil {
						log.Printf("Restart failed: %v", err)
					}

				case ipc.ControlQuit:
					log.Println("Shutting down pindeck daemon...")
					proc.Exit(0, cleanup)
				}
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	if err := a.Run(); err != nil {
		log.Fatalf("error while running pindeck: %v", err)
	}
}

// applyReload pushes freshly reloaded settings into the components that
// hold their own copy. Hotkey and update-interval changes need a
// restart.
func applyReload(a *app.App, autostartPlugin *autostart.Plugin) {
	if autostartPlugin == nil {
		return
	}
	if err := autostartPlugin.Update(a.Config().Autostart); err != nil {
		log.Printf("Warning: autostart update failed: %v", err)
	}
}

// panelGeometry adapts the panel window lookup into the reconciler's
// geometry probe.
func panelGeometry(a *app.App) daemon.GeometryFunc {
	return func() (geometry.Rect, bool) {
		win, ok := a.Panel()
		if !ok {
			return geometry.Rect{}, false
		}
		rect, err := win.Geometry()
		if err != nil {
			return geometry.Rect{}, false
		}
		return rect, true
	}
}

func displayHotkey(s string) string {
	if s == "" {
		return "(unbound)"
	}
	return s
}
