package process

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelaunchCommand_PreservesArgs(t *testing.T) {
	cmd, err := RelaunchCommand()
	if err != nil {
		t.Fatalf("RelaunchCommand failed: %v", err)
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable failed: %v", err)
	}
	if cmd.Path != exe {
		t.Errorf("expected path %q, got %q", exe, cmd.Path)
	}
	if len(cmd.Args) != len(os.Args) {
		t.Errorf("expected %d args, got %d", len(os.Args), len(cmd.Args))
	}
}

func TestRelaunch_StartsThenCleansUpThenExits(t *testing.T) {
	var order []string
	c := NewController(testLogger())
	c.start = func(*exec.Cmd) error {
		order = append(order, "start")
		return nil
	}
	c.exit = func(code int) {
		order = append(order, "exit")
		if code != 0 {
			t.Errorf("expected exit code 0, got %d", code)
		}
	}

	err := c.Relaunch(func() { order = append(order, "cleanup") })
	if err != nil {
		t.Fatalf("Relaunch failed: %v", err)
	}

	want := []string{"start", "cleanup", "exit"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestRelaunch_StartFailureLeavesProcessAlive(t *testing.T) {
	c := NewController(testLogger())
	c.start = func(*exec.Cmd) error { return errors.New("spawn failed") }

	exited := false
	c.exit = func(int) { exited = true }

	if err := c.Relaunch(nil); err == nil {
		t.Fatal("expected error when start fails")
	}
	if exited {
		t.Error("expected process to keep running when start fails")
	}
}

func TestExit_RunsCleanupFirst(t *testing.T) {
	var order []string
	c := NewController(testLogger())
	c.exit = func(code int) {
		order = append(order, "exit")
		if code != 3 {
			t.Errorf("expected exit code 3, got %d", code)
		}
	}

	c.Exit(3, func() { order = append(order, "cleanup") })

	if len(order) != 2 || order[0] != "cleanup" || order[1] != "exit" {
		t.Fatalf("expected cleanup before exit, got %v", order)
	}
}

func TestControllerImplementsInit(t *testing.T) {
	c := NewController(testLogger())
	if c.Name() != "process" {
		t.Errorf("expected name process, got %s", c.Name())
	}
	if err := c.Init(); err != nil {
		t.Errorf("expected Init to succeed, got %v", err)
	}
}
