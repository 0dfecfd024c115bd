//go:build windows

package win32

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pindeck/pindeck/internal/geometry"
)

const monitorinfofPrimary = 1 // MONITORINFOF_PRIMARY

type rect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfoExW struct {
	Size    uint32
	Monitor rect
	Work    rect
	Flags   uint32
	Device  [32]uint16
}

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)(-4)
var dpiAwarenessPerMonitorV2 = ^uintptr(3)

// EnablePerMonitorDPI opts the process into per-monitor DPI awareness so
// window and monitor coordinates arrive unscaled. Systems predating the
// API keep their default awareness, which is not an error.
func EnablePerMonitorDPI() error {
	if procSetProcessDpiAwarenessContext.Find() != nil {
		return nil
	}
	r, _, _ := procSetProcessDpiAwarenessContext.Call(dpiAwarenessPerMonitorV2)
	if r == 0 {
		return fmt.Errorf("SetProcessDpiAwarenessContext failed")
	}
	return nil
}

// CurrentThreadID returns the native identifier of the calling OS thread.
func CurrentThreadID() uint32 {
	tid, _, _ := procGetCurrentThreadId.Call()
	return uint32(tid)
}

// Callbacks registered with syscall.NewCallback are never released, so
// the enum proc is created once and exchanges results through package
// state under enumMu.
var (
	enumMu     sync.Mutex
	enumOnce   sync.Once
	enumProc   uintptr
	enumResult []geometry.Monitor
	enumScale  float64
)

func enumMonitor(hMonitor, hdcMonitor, lprcMonitor, dwData uintptr) uintptr {
	var mi monitorInfoExW
	mi.Size = uint32(unsafe.Sizeof(mi))

	ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
	if ret != 0 {
		scale := enumScale
		if scale <= 0 {
			scale = scaleForMonitor(hMonitor)
		}
		enumResult = append(enumResult, geometry.Monitor{
			ID:          len(enumResult),
			Name:        syscall.UTF16ToString(mi.Device[:]),
			X:           int(mi.Monitor.Left),
			Y:           int(mi.Monitor.Top),
			Width:       int(mi.Monitor.Right - mi.Monitor.Left),
			Height:      int(mi.Monitor.Bottom - mi.Monitor.Top),
			ScaleFactor: scale,
			Primary:     mi.Flags&monitorinfofPrimary != 0,
		})
	}
	return 1
}

// Monitors returns all active monitors. When scaleOverride is positive it
// replaces the effective DPI scale on every monitor.
func Monitors(scaleOverride float64) ([]geometry.Monitor, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumOnce.Do(func() { enumProc = syscall.NewCallback(enumMonitor) })

	enumResult = nil
	enumScale = scaleOverride
	procEnumDisplayMonitors.Call(0, 0, enumProc, 0)

	monitors := enumResult
	enumResult = nil
	return monitors, nil
}

// scaleForMonitor converts the monitor's effective DPI to a scale factor
// relative to the 96 DPI baseline.
func scaleForMonitor(hMonitor uintptr) float64 {
	if procGetDpiForMonitor.Find() != nil {
		return 1.0
	}
	var dx, dy uint32
	// MDT_EFFECTIVE_DPI = 0
	r, _, _ := procGetDpiForMonitor.Call(hMonitor, 0, uintptr(unsafe.Pointer(&dx)), uintptr(unsafe.Pointer(&dy)))
	if r != 0 || dx == 0 {
		return 1.0
	}
	return float64(dx) / 96.0
}

// PrimaryMonitor resolves the primary display. A nil monitor with a nil
// error means no monitor is connected; callers treat that as "skip
// placement", not as a failure.
func PrimaryMonitor(scaleOverride float64) (*geometry.Monitor, error) {
	monitors, err := Monitors(scaleOverride)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, nil
	}
	for i := range monitors {
		if monitors[i].Primary {
			return &monitors[i], nil
		}
	}
	return &monitors[0], nil
}

// Affinity values for SetWindowDisplayAffinity.
const (
	WDANone               uint32 = 0x0
	WDAExcludeFromCapture uint32 = 0x11
)

// SetWindowDisplayAffinity controls whether a window appears in screen
// capture output. WDAExcludeFromCapture needs Windows 10 2004 or later.
func SetWindowDisplayAffinity(hwnd uintptr, affinity uint32) error {
	if procSetWindowDisplayAffinity.Find() != nil {
		return fmt.Errorf("SetWindowDisplayAffinity not available")
	}
	r, _, _ := procSetWindowDisplayAffinity.Call(hwnd, uintptr(affinity))
	if r == 0 {
		return fmt.Errorf("SetWindowDisplayAffinity failed")
	}
	return nil
}
