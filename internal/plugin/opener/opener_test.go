package opener

import (
	"io"
	"log/slog"
	"runtime"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate_AllowedSchemes(t *testing.T) {
	for _, target := range []string{
		"https://example.com/page",
		"http://example.com",
		"mailto:dev@example.com",
		"HTTPS://EXAMPLE.COM", // scheme comparison is case-insensitive
	} {
		if err := Validate(target); err != nil {
			t.Errorf("expected %q to validate, got %v", target, err)
		}
	}
}

func TestValidate_RejectsDisallowedSchemes(t *testing.T) {
	for _, target := range []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"/etc/passwd",
		"example.com",
	} {
		if err := Validate(target); err == nil {
			t.Errorf("expected %q to be rejected", target)
		}
	}
}

func TestOpen_UsesPlatformHandler(t *testing.T) {
	var gotName string
	var gotArgs []string

	o := New(testLogger())
	o.run = func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	if err := o.Open("https://example.com"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	wantName, wantArgs := "xdg-open", 1
	switch runtime.GOOS {
	case "darwin":
		wantName = "open"
	case "windows":
		wantName, wantArgs = "rundll32", 2
	}
	if gotName != wantName {
		t.Errorf("expected handler %q, got %q", wantName, gotName)
	}
	if len(gotArgs) != wantArgs {
		t.Errorf("expected %d args, got %v", wantArgs, gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != "https://example.com" {
		t.Errorf("expected target as final arg, got %v", gotArgs)
	}
}

func TestOpen_RejectedTargetNeverLaunches(t *testing.T) {
	launched := false
	o := New(testLogger())
	o.run = func(string, ...string) error {
		launched = true
		return nil
	}

	if err := o.Open("file:///etc/shadow"); err == nil {
		t.Fatal("expected rejection")
	}
	if launched {
		t.Error("expected no handler launch for a rejected target")
	}
}
