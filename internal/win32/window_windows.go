//go:build windows

package win32

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"
)

const (
	wsPopup        = 0x80000000
	wsExToolWindow = 0x00000080
	wsExTopmost    = 0x00000008

	wmDestroy = 0x0002
	wmClose   = 0x0010
	wmQuit    = 0x0012

	swHide = 0
	swShow = 5

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010

	idcArrow    = 32512
	colorWindow = 5
)

// HWND_TOPMOST is (HWND)-1, HWND_NOTOPMOST is (HWND)-2.
var (
	hwndTopmost   = ^uintptr(0)
	hwndNotopmost = ^uintptr(1)
)

const className = "PindeckPanel"

type wndClassExW struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// Window is a native panel window. Messages for it are delivered to the
// thread that created it, so creation and the pump share one locked thread.
type Window struct {
	hwnd     uintptr
	threadID uint32
	onClose  func()
}

var (
	classOnce sync.Once
	classErr  error

	registryMu sync.RWMutex
	registry   = make(map[uintptr]*Window)
)

func ensureClass() error {
	classOnce.Do(func() {
		namePtr, err := syscall.UTF16PtrFromString(className)
		if err != nil {
			classErr = err
			return
		}

		hInstance, _, _ := procGetModuleHandleW.Call(0)
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)

		wc := wndClassExW{
			WndProc:    syscall.NewCallback(wndProc),
			Instance:   hInstance,
			Cursor:     cursor,
			Background: colorWindow + 1,
			ClassName:  namePtr,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))

		if atom, _, _ := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
			classErr = fmt.Errorf("RegisterClassExW failed")
		}
	})
	return classErr
}

func wndProc(hwnd, message, wparam, lparam uintptr) uintptr {
	switch uint32(message) {
	case wmClose:
		registryMu.RLock()
		w := registry[hwnd]
		registryMu.RUnlock()
		// The daemon owns window lifetime; a close request hides the
		// panel rather than destroying it.
		if w != nil && w.onClose != nil {
			w.onClose()
			return 0
		}
	case wmDestroy:
		registryMu.Lock()
		delete(registry, hwnd)
		registryMu.Unlock()
		return 0
	}

	r, _, _ := procDefWindowProcW.Call(hwnd, message, wparam, lparam)
	return r
}

// CreateWindow creates a hidden borderless tool window at the given
// physical coordinates. Must be called on the pump thread.
func CreateWindow(title string, x, y, width, height int, alwaysOnTop bool) (*Window, error) {
	if err := ensureClass(); err != nil {
		return nil, fmt.Errorf("failed to register window class: %w", err)
	}

	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return nil, err
	}
	classPtr, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return nil, err
	}

	exStyle := uintptr(wsExToolWindow)
	if alwaysOnTop {
		exStyle |= wsExTopmost
	}

	hInstance, _, _ := procGetModuleHandleW.Call(0)
	hwnd, _, _ := procCreateWindowExW.Call(
		exStyle,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		wsPopup,
		uintptr(x), uintptr(y), uintptr(width), uintptr(height),
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("CreateWindowExW failed")
	}

	w := &Window{hwnd: hwnd, threadID: CurrentThreadID()}

	registryMu.Lock()
	registry[hwnd] = w
	registryMu.Unlock()

	return w, nil
}

// Handle returns the HWND.
func (w *Window) Handle() uintptr {
	return w.hwnd
}

// OnCloseRequest registers fn to run instead of default WM_CLOSE handling.
func (w *Window) OnCloseRequest(fn func()) {
	w.onClose = fn
}

// SetPosition moves the window, physical pixels.
func (w *Window) SetPosition(x, y int) error {
	r, _, _ := procSetWindowPos.Call(w.hwnd, 0,
		uintptr(x), uintptr(y), 0, 0,
		swpNoSize|swpNoZOrder|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos failed")
	}
	return nil
}

// SetSize resizes the window in place, physical pixels.
func (w *Window) SetSize(width, height int) error {
	r, _, _ := procSetWindowPos.Call(w.hwnd, 0,
		0, 0, uintptr(width), uintptr(height),
		swpNoMove|swpNoZOrder|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos failed")
	}
	return nil
}

// SetAlwaysOnTop moves the window into or out of the topmost band.
func (w *Window) SetAlwaysOnTop(onTop bool) error {
	insertAfter := hwndNotopmost
	if onTop {
		insertAfter = hwndTopmost
	}
	r, _, _ := procSetWindowPos.Call(w.hwnd, insertAfter,
		0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos failed")
	}
	return nil
}

// Show makes the window visible and foregrounds it.
func (w *Window) Show() {
	procShowWindow.Call(w.hwnd, swShow)
	procSetForegroundWindow.Call(w.hwnd)
}

// Hide conceals the window without destroying it.
func (w *Window) Hide() {
	procShowWindow.Call(w.hwnd, swHide)
}

// Visible reports whether the window is shown.
func (w *Window) Visible() bool {
	r, _, _ := procIsWindowVisible.Call(w.hwnd)
	return r != 0
}

// Geometry returns the window rectangle in physical pixels.
func (w *Window) Geometry() (x, y, width, height int, err error) {
	var rc rect
	r, _, _ := procGetWindowRect.Call(w.hwnd, uintptr(unsafe.Pointer(&rc)))
	if r == 0 {
		return 0, 0, 0, 0, fmt.Errorf("GetWindowRect failed")
	}
	return int(rc.Left), int(rc.Top), int(rc.Right - rc.Left), int(rc.Bottom - rc.Top), nil
}

// Destroy releases the window.
func (w *Window) Destroy() {
	procDestroyWindow.Call(w.hwnd)
}

// RunLoop pumps messages until WM_QUIT arrives. Must run on the thread
// that created the windows.
func RunLoop() error {
	var m msg
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			return fmt.Errorf("GetMessageW failed")
		case 0:
			return nil // WM_QUIT
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// QuitLoop posts WM_QUIT to the pump thread. Safe from any goroutine.
func QuitLoop(threadID uint32) {
	procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
}
