//go:build windows

package capture

import "github.com/pindeck/pindeck/internal/win32"

var platformStrategy = Strategy{
	name:      "exclude-from-capture",
	supported: true,
	apply: func(handle uintptr) error {
		return win32.SetWindowDisplayAffinity(handle, win32.WDAExcludeFromCapture)
	},
}
