// Package process gives pindeck control over its own lifecycle: clean
// exit and in-place relaunch of the running executable.
package process

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Controller restarts or stops the current process. The exit and start
// functions are swappable so lifecycle paths stay testable.
type Controller struct {
	log   *slog.Logger
	exit  func(int)
	start func(*exec.Cmd) error
}

func NewController(log *slog.Logger) *Controller {
	return &Controller{
		log:   log,
		exit:  os.Exit,
		start: (*exec.Cmd).Start,
	}
}

func (c *Controller) Name() string {
	return "process"
}

// Init has nothing to set up; the controller is call-driven.
func (c *Controller) Init() error {
	return nil
}

// RelaunchCommand builds the command that replaces this process,
// preserving the original arguments and environment.
func RelaunchCommand() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable path: %w", err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Relaunch starts a fresh copy of this executable, runs cleanup, and
// exits the current process. cleanup must release anything the
// replacement needs, the IPC socket in particular.
func (c *Controller) Relaunch(cleanup func()) error {
	cmd, err := RelaunchCommand()
	if err != nil {
		return err
	}

	c.log.Info("relaunching", "exe", cmd.Path, "args", cmd.Args[1:])
	if err := c.start(cmd); err != nil {
		return fmt.Errorf("failed to start replacement process: %w", err)
	}

	if cleanup != nil {
		cleanup()
	}
	c.exit(0)
	return nil
}

// Exit runs cleanup and terminates with the given code.
func (c *Controller) Exit(code int, cleanup func()) {
	c.log.Info("exiting", "code", code)
	if cleanup != nil {
		cleanup()
	}
	c.exit(code)
}
