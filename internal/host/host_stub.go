//go:build !linux && !windows

package host

// Connect reports that no windowing backend exists for this platform.
// Headless commands (status, config, mcp) still work without a host.
func Connect(opts Options) (Host, error) {
	return nil, ErrUnsupported
}
