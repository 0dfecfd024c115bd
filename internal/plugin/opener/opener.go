// Package opener launches URLs with the desktop's default handler,
// restricted to a scheme allowlist so arbitrary commands and local
// paths can't be smuggled through the panel.
package opener

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
)

// allowedSchemes are the URL schemes Open will hand to the desktop.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// Opener hands validated URLs to the platform's default handler.
type Opener struct {
	log *slog.Logger
	run func(name string, args ...string) error
}

func New(log *slog.Logger) *Opener {
	return &Opener{log: log, run: launch}
}

func (o *Opener) Name() string {
	return "opener"
}

// Init has nothing to set up; the opener is call-driven.
func (o *Opener) Init() error {
	return nil
}

// Validate checks target against the scheme allowlist without launching
// anything.
func Validate(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", target, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("target %q has no scheme; only %s URLs can be opened", target, schemeList())
	}
	if !allowedSchemes[u.Scheme] {
		return fmt.Errorf("scheme %q is not allowed; only %s URLs can be opened", u.Scheme, schemeList())
	}
	return nil
}

// Open validates target and hands it to the platform opener.
func (o *Opener) Open(target string) error {
	if err := Validate(target); err != nil {
		return err
	}

	name, args := openCommand(target)
	o.log.Info("opening url", "target", target, "handler", name)
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("failed to open %q: %w", target, err)
	}
	return nil
}

// openCommand returns the platform's URL handler invocation.
func openCommand(target string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// launch starts the handler detached; the opener never waits on it.
func launch(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

func schemeList() string {
	schemes := make([]string, 0, len(allowedSchemes))
	for s := range allowedSchemes {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return strings.Join(schemes, ", ")
}
