// Package capture hides pindeck windows from screen sharing and
// recording. Platforms without a display-affinity API get a no-op
// strategy, so callers never branch on the OS themselves.
package capture

// Strategy excludes windows from capture output. The concrete strategy
// is selected at build time per platform.
type Strategy struct {
	name      string
	supported bool
	apply     func(handle uintptr) error
}

// ForPlatform returns the strategy compiled into this binary.
func ForPlatform() Strategy {
	return platformStrategy
}

// Name identifies the strategy, for logs and status output.
func (s Strategy) Name() string {
	return s.name
}

// Supported reports whether this platform can exclude windows from
// capture at all.
func (s Strategy) Supported() bool {
	return s.supported
}

// Exclude removes the window behind handle from capture output. On
// unsupported platforms it does nothing and returns nil.
func (s Strategy) Exclude(handle uintptr) error {
	if s.apply == nil {
		return nil
	}
	return s.apply(handle)
}
