package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/ipc"
	"github.com/pindeck/pindeck/internal/tui"
)

// version is stamped into status output, update checks, and the MCP
// server identity.
const version = "0.5.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemonCmd(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "panel":
		os.Exit(runPanel(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "update":
		os.Exit(runUpdate(os.Args[2:]))
	case "autostart":
		os.Exit(runAutostart(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "restart":
		os.Exit(runRestart(os.Args[2:]))
	case "stop":
		os.Exit(runStop(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "-v", "--version":
		fmt.Println("pindeck " + version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pindeck <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the pindeck daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  panel reposition    Re-place the panel on the primary monitor")
	fmt.Fprintln(w, "  panel show          Show the panel window")
	fmt.Fprintln(w, "  panel hide          Hide the panel window")
	fmt.Fprintln(w, "  panel set           Change panel geometry at runtime")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <url>          Open a link through the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  update check        Check the release endpoint for a newer version")
	fmt.Fprintln(w, "  update apply        Download and install the latest release")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  autostart enable    Launch the daemon on login")
	fmt.Fprintln(w, "  autostart disable   Remove the login entry")
	fmt.Fprintln(w, "  autostart status    Show the login entry state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  reload              Tell the daemon to reload its configuration")
	fmt.Fprintln(w, "  restart             Restart the daemon in place")
	fmt.Fprintln(w, "  stop                Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive settings TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print the pindeck version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'pindeck <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("phase:          %s\n", status.Phase)
	fmt.Printf("version:        %s\n", status.Version)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	if p := status.Panel; p != nil {
		visibility := "hidden"
		if p.Visible {
			visibility = "visible"
		}
		fmt.Printf("panel:          %.0fx%.0f at (%.0f, %.0f), %s\n", p.Width, p.Height, p.X, p.Y, visibility)
	}
	if m := status.Monitor; m != nil {
		fmt.Printf("monitor:        %s %dx%d at (%d, %d), scale %g\n", m.Name, m.Width, m.Height, m.X, m.Y, m.ScaleFactor)
	}
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck open <url>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open an http, https, or mailto link with the user's default handler.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires exactly one <url>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Open(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  pindeck config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  pindeck config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/pindeck/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/pindeck/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Tell the running daemon to reload its configuration file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRestart(args []string) int {
	fs := flag.NewFlagSet("restart", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck restart")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restart the running daemon in place.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "restart takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Restart(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStop(args []string) int {
	fs := flag.NewFlagSet("stop", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck stop")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Stop the running daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stop takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/pindeck/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pindeck tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the interactive settings TUI.")
		fmt.Fprintln(os.Stderr, "Works as an offline editor when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1/2  Switch tabs")
		fmt.Fprintln(os.Stderr, "  e         Edit settings")
		fmt.Fprintln(os.Stderr, "  Esc       Cancel editing")
		fmt.Fprintln(os.Stderr, "  Ctrl+S    Save config (and reload daemon when running)")
		fmt.Fprintln(os.Stderr, "  r         Refresh daemon state")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "tui requires an interactive terminal (stdin/stdout must be TTYs)")
		return 1
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
