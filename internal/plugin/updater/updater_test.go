package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func manifestJSON(version string) string {
	return fmt.Sprintf(`{
		"version": %q,
		"notes": "bug fixes",
		"pub_date": "2026-01-02T15:04:05Z",
		"platforms": {
			%q: {"signature": "", "url": "https://releases.example.com/pindeck-%s"}
		}
	}`, version, target(), version)
}

func TestCheck_NewerVersionAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, manifestJSON("9.9.9"))
	}))
	defer srv.Close()

	u := New(Config{Endpoint: srv.URL, CurrentVersion: "0.5.0", Logger: testLogger()})
	upd, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if upd == nil {
		t.Fatal("expected an update, got nil")
	}
	if upd.Version != "9.9.9" {
		t.Errorf("expected version 9.9.9, got %s", upd.Version)
	}
	if upd.URL == "" {
		t.Error("expected a download URL")
	}
}

func TestCheck_UpToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, manifestJSON("0.5.0"))
	}))
	defer srv.Close()

	u := New(Config{Endpoint: srv.URL, CurrentVersion: "0.5.0", Logger: testLogger()})
	upd, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if upd != nil {
		t.Errorf("expected no update for current version, got %+v", upd)
	}
}

func TestCheck_NoContentMeansNoUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	u := New(Config{Endpoint: srv.URL, CurrentVersion: "0.5.0", Logger: testLogger()})
	upd, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if upd != nil {
		t.Errorf("expected no update on 204, got %+v", upd)
	}
}

func TestCheck_DisabledWithoutEndpoint(t *testing.T) {
	u := New(Config{CurrentVersion: "0.5.0", Logger: testLogger()})
	if _, err := u.Check(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestCheck_MissingPlatformBuild(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version": "9.9.9", "platforms": {"solaris-sparc64": {"url": "x"}}}`)
	}))
	defer srv.Close()

	u := New(Config{Endpoint: srv.URL, CurrentVersion: "0.5.0", Logger: testLogger()})
	if _, err := u.Check(context.Background()); err == nil {
		t.Fatal("expected error when manifest lacks a build for this target")
	}
}

func TestCheck_EndpointPlaceholderSubstitution(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	u := New(Config{
		Endpoint:       srv.URL + "/releases/{{target}}/{{current_version}}",
		CurrentVersion: "0.5.0",
		Logger:         testLogger(),
	})
	if _, err := u.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	want := "/releases/" + target() + "/0.5.0"
	if gotPath != want {
		t.Errorf("expected request path %q, got %q", want, gotPath)
	}
}

func TestDownload_StagesPayload(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	payload := []byte("new pindeck binary")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	u := New(Config{Endpoint: srv.URL, CurrentVersion: "0.5.0", Logger: testLogger()})
	path, err := u.Download(context.Background(), &Update{Version: "9.9.9", URL: srv.URL})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read staged file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("staged payload mismatch: got %q", data)
	}
}

func TestApplyAt_SwapsBinaryAndKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "pindeck")
	staged := filepath.Join(dir, "staged")

	if err := os.WriteFile(exe, []byte("old build"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(staged, []byte("new build"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := applyAt(exe, staged); err != nil {
		t.Fatalf("applyAt failed: %v", err)
	}

	data, err := os.ReadFile(exe)
	if err != nil {
		t.Fatalf("failed to read installed binary: %v", err)
	}
	if string(data) != "new build" {
		t.Errorf("expected new build in place, got %q", data)
	}

	backup, err := os.ReadFile(exe + ".old")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(backup) != "old build" {
		t.Errorf("expected old build in backup, got %q", backup)
	}
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"0.5.0", "0.5.0", 0},
		{"0.5.0", "0.5.1", -1},
		{"0.10.0", "0.9.9", 1},
		{"1.0", "1.0.0", 0},
		{"v1.2.3", "1.2.3", 0},
		{"1.2.3-beta.1", "1.2.3", 0},
		{"2.0.0", "10.0.0", -1},
	}

	for _, tc := range cases {
		if got := compareVersions(tc.a, tc.b); got != tc.want {
			t.Errorf("compareVersions(%q, %q) = %d, expected %d", tc.a, tc.b, got, tc.want)
		}
	}
}
