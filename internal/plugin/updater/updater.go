// Package updater checks a release manifest endpoint for newer builds,
// downloads the matching platform payload, and swaps it in for the
// running executable on demand.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// ErrDisabled is returned by Check when no endpoint is configured.
var ErrDisabled = errors.New("updater: no endpoint configured")

// Manifest is the release descriptor served by the update endpoint.
type Manifest struct {
	Version   string                   `json:"version"`
	Notes     string                   `json:"notes"`
	PubDate   time.Time                `json:"pub_date"`
	Platforms map[string]PlatformAsset `json:"platforms"`
}

// PlatformAsset is one downloadable build inside a manifest.
type PlatformAsset struct {
	Signature string `json:"signature"`
	URL       string `json:"url"`
}

// Update describes a newer release found by Check.
type Update struct {
	Version string
	Notes   string
	PubDate time.Time
	URL     string
}

// Config configures an Updater.
type Config struct {
	// Endpoint serves the manifest. {{target}} and {{current_version}}
	// placeholders are substituted before the request. Empty disables
	// the updater.
	Endpoint       string
	CurrentVersion string
	// Notify posts a desktop notification when the watcher finds an
	// update.
	Notify     bool
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Updater resolves, downloads, and installs release updates.
type Updater struct {
	endpoint string
	current  string
	notify   bool
	log      *slog.Logger
	client   *http.Client

	mu        sync.Mutex
	announced map[string]bool
}

func New(cfg Config) *Updater {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Updater{
		endpoint:  cfg.Endpoint,
		current:   cfg.CurrentVersion,
		notify:    cfg.Notify,
		log:       log,
		client:    client,
		announced: make(map[string]bool),
	}
}

func (u *Updater) Name() string {
	return "updater"
}

// Init validates the configured endpoint. An empty endpoint means the
// updater is disabled, which is fine.
func (u *Updater) Init() error {
	if u.endpoint == "" {
		u.log.Debug("updater disabled, no endpoint configured")
		return nil
	}
	if _, err := url.Parse(u.endpointURL()); err != nil {
		return fmt.Errorf("invalid update endpoint: %w", err)
	}
	return nil
}

// Enabled reports whether an endpoint is configured.
func (u *Updater) Enabled() bool {
	return u.endpoint != ""
}

// endpointURL substitutes the manifest URL placeholders.
func (u *Updater) endpointURL() string {
	out := strings.ReplaceAll(u.endpoint, "{{target}}", target())
	return strings.ReplaceAll(out, "{{current_version}}", u.current)
}

// Check fetches the manifest and returns the available update, or nil
// when this build is current. A 204 from the endpoint means no update.
func (u *Updater) Check(ctx context.Context) (*Update, error) {
	if u.endpoint == "" {
		return nil, ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpointURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch update manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest endpoint returned %s", resp.Status)
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode update manifest: %w", err)
	}

	if compareVersions(m.Version, u.current) <= 0 {
		return nil, nil
	}

	asset, ok := m.Platforms[target()]
	if !ok {
		return nil, fmt.Errorf("manifest %s has no build for %s", m.Version, target())
	}

	return &Update{
		Version: m.Version,
		Notes:   m.Notes,
		PubDate: m.PubDate,
		URL:     asset.URL,
	}, nil
}

// Download fetches the update payload into the user cache directory and
// returns the staged file path.
func (u *Updater) Download(ctx context.Context, upd *Update) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upd.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download endpoint returned %s", resp.Status)
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	dir := filepath.Join(cacheDir, "pindeck", "updates")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create update directory: %w", err)
	}

	name := "pindeck-" + upd.Version
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}

	u.log.Info("update downloaded",
		"version", upd.Version,
		"size", humanize.Bytes(uint64(n)),
		"path", path)
	return path, nil
}

// Apply swaps the staged binary in for the running executable. The
// replaced binary stays beside it with a .old suffix so a bad release
// can be rolled back by hand. Takes effect on the next start.
func (u *Updater) Apply(stagedPath string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return applyAt(exe, stagedPath)
}

func applyAt(exe, stagedPath string) error {
	// The staged file may sit on another filesystem, so it is copied
	// next to the executable before the rename dance.
	incoming := exe + ".new"
	if err := copyFile(stagedPath, incoming, 0755); err != nil {
		return fmt.Errorf("failed to stage update beside executable: %w", err)
	}

	backup := exe + ".old"
	os.Remove(backup)
	if err := os.Rename(exe, backup); err != nil {
		os.Remove(incoming)
		return fmt.Errorf("failed to set aside current executable: %w", err)
	}
	if err := os.Rename(incoming, exe); err != nil {
		os.Rename(backup, exe)
		return fmt.Errorf("failed to install update: %w", err)
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
	}
	return err
}

// Watch polls the endpoint until ctx is canceled, announcing each newly
// seen version once.
func (u *Updater) Watch(ctx context.Context, interval time.Duration) {
	if u.endpoint == "" || interval <= 0 {
		return
	}
	u.log.Info("update watcher started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.log.Info("update watcher stopped")
			return
		case <-ticker.C:
			upd, err := u.Check(ctx)
			if err != nil {
				u.log.Warn("update check failed", "error", err)
				continue
			}
			if upd != nil {
				u.announce(upd)
			}
		}
	}
}

// announce logs an available update and, once per version, raises a
// desktop notification.
func (u *Updater) announce(upd *Update) {
	u.mu.Lock()
	seen := u.announced[upd.Version]
	u.announced[upd.Version] = true
	u.mu.Unlock()
	if seen {
		return
	}

	u.log.Info("update available",
		"version", upd.Version,
		"published", humanize.Time(upd.PubDate))
	if u.notify {
		body := fmt.Sprintf("Version %s is ready. Run 'pindeck update apply' to install.", upd.Version)
		if err := sendNotification("pindeck update available", body); err != nil {
			u.log.Debug("desktop notification failed", "error", err)
		}
	}
}
