package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/ipc"
	"github.com/pindeck/pindeck/internal/plugin/updater"
)

func printUpdateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pindeck update check")
	fmt.Fprintln(w, "  pindeck update apply")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'pindeck update <command> --help' for command-specific options.")
}

func runUpdate(args []string) int {
	if len(args) == 0 {
		printUpdateUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "check":
		return runUpdateCheck(args[1:])
	case "apply":
		return runUpdateApply(args[1:])
	case "help", "-h", "--help":
		printUpdateUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown update command: %s\n\n", args[0])
		printUpdateUsage(os.Stderr)
		return 2
	}
}

func runUpdateCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck update check")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Check the release endpoint for a newer version. Asks the daemon")
		fmt.Fprintln(os.Stderr, "when it is running, otherwise checks directly.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	// Prefer the daemon's updater so announcements stay deduplicated
	client := ipc.NewClient()
	if client.Ping() == nil {
		data, err := client.CheckUpdate()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !data.Available {
			fmt.Printf("up to date (%s)\n", version)
			return 0
		}
		fmt.Printf("update available: %s (current %s)\n", data.Version, version)
		if data.Notes != "" {
			fmt.Println(data.Notes)
		}
		return 0
	}

	upd, err := newDirectUpdater()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := upd.Check(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrDisabled) {
			fmt.Fprintln(os.Stderr, "updater is disabled (no endpoint configured)")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	if u == nil {
		fmt.Printf("up to date (%s)\n", version)
		return 0
	}
	fmt.Printf("update available: %s (current %s), published %s\n", u.Version, version, humanize.Time(u.PubDate))
	if u.Notes != "" {
		fmt.Println(u.Notes)
	}
	return 0
}

func runUpdateApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck update apply")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Download the latest release and replace the current executable.")
		fmt.Fprintln(os.Stderr, "The running daemon keeps its old binary until restarted.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	upd, err := newDirectUpdater()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	u, err := upd.Check(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrDisabled) {
			fmt.Fprintln(os.Stderr, "updater is disabled (no endpoint configured)")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	if u == nil {
		fmt.Printf("already up to date (%s)\n", version)
		return 0
	}

	fmt.Printf("downloading %s (published %s)...\n", u.Version, humanize.Time(u.PubDate))
	staged, err := upd.Download(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := upd.Apply(staged); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("updated to %s\n", u.Version)
	fmt.Println("restart the daemon to finish: pindeck restart")
	return 0
}

func newDirectUpdater() (*updater.Updater, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	return updater.New(updater.Config{
		Endpoint:       cfg.Updater.Endpoint,
		CurrentVersion: version,
		Logger:         logger,
	}), nil
}
