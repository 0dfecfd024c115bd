package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pindeck/pindeck/internal/ipc"
)

func printPanelUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pindeck panel reposition")
	fmt.Fprintln(w, "  pindeck panel show")
	fmt.Fprintln(w, "  pindeck panel hide")
	fmt.Fprintln(w, "  pindeck panel set [--width W] [--height H] [--offset O] [--on-top true|false]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'pindeck panel <command> --help' for command-specific options.")
}

func runPanel(args []string) int {
	if len(args) == 0 {
		printPanelUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printPanelUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "reposition":
		fs := flag.NewFlagSet("reposition", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: pindeck panel reposition")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Re-place the panel centered on the primary monitor.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "panel reposition takes no arguments")
			fs.Usage()
			return 2
		}
		if err := client.Reposition(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: pindeck panel show")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if err := client.ShowPanel(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "hide":
		fs := flag.NewFlagSet("hide", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: pindeck panel hide")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if err := client.HidePanel(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "set":
		fs := flag.NewFlagSet("set", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: pindeck panel set [--width W] [--height H] [--offset O] [--on-top true|false]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Change panel geometry at runtime. Only the given flags change;")
			fmt.Fprintln(os.Stderr, "the daemon re-places the panel afterwards. Settings are not")
			fmt.Fprintln(os.Stderr, "written to the config file.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		width := fs.Float64("width", 0, "Panel width in logical pixels")
		height := fs.Float64("height", 0, "Panel height in logical pixels")
		offset := fs.Float64("offset", 0, "Vertical offset from monitor center")
		onTop := fs.String("on-top", "", "Keep the panel above other windows (true|false)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "panel set takes no arguments")
			fs.Usage()
			return 2
		}

		var payload ipc.SetPanelPayload
		var badFlag bool
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "width":
				payload.Width = width
			case "height":
				payload.Height = height
			case "offset":
				payload.VerticalOffset = offset
			case "on-top":
				v, err := strconv.ParseBool(*onTop)
				if err != nil {
					fmt.Fprintf(os.Stderr, "invalid --on-top value %q\n", *onTop)
					badFlag = true
					return
				}
				payload.AlwaysOnTop = &v
			}
		})
		if badFlag {
			return 2
		}
		if payload.Width == nil && payload.Height == nil && payload.VerticalOffset == nil && payload.AlwaysOnTop == nil {
			fmt.Fprintln(os.Stderr, "panel set requires at least one flag")
			fs.Usage()
			return 2
		}

		if err := client.SetPanel(payload); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown panel command: %s\n\n", args[0])
		printPanelUsage(os.Stderr)
		return 2
	}
}
