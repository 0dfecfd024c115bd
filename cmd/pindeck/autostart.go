package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/plugin/autostart"
)

func printAutostartUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pindeck autostart enable")
	fmt.Fprintln(w, "  pindeck autostart disable")
	fmt.Fprintln(w, "  pindeck autostart status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Installs or removes the login entry that starts 'pindeck daemon'.")
	fmt.Fprintln(w, "The autostart setting in the config file is updated to match, so")
	fmt.Fprintln(w, "a running daemon does not undo the change on its next reload.")
}

func runAutostart(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		w := os.Stderr
		code := 2
		if len(args) > 0 {
			w = os.Stdout
			code = 0
		}
		printAutostartUsage(w)
		return code
	}

	fs := flag.NewFlagSet("autostart", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printAutostartUsage(os.Stderr) }
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "autostart %s takes no arguments\n", args[0])
		return 2
	}

	manager, err := autostart.NewManager("pindeck", autostart.LaunchAgent, "daemon")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args[0] {
	case "enable":
		if err := manager.Enable(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := persistAutostart(true); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("autostart: enabled")
		return 0

	case "disable":
		if err := manager.Disable(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := persistAutostart(false); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("autostart: disabled")
		return 0

	case "status":
		enabled, err := manager.IsEnabled()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("login_entry: %s\n", enabledWord(enabled))
		fmt.Printf("config:      %s\n", enabledWord(cfg.Autostart))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown autostart command: %s\n\n", args[0])
		printAutostartUsage(os.Stderr)
		return 2
	}
}

func persistAutostart(enabled bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Autostart = enabled
	return cfg.Save()
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
