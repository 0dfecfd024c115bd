//go:build !windows

package capture

// X11 has no display-affinity equivalent; compositors decide what a
// capture sees. The no-op keeps bootstrap identical across platforms.
var platformStrategy = Strategy{
	name:      "noop",
	supported: false,
}
