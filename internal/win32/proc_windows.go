//go:build windows

package win32

import "syscall"

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")
	shcore   = syscall.NewLazyDLL("shcore.dll")

	procCreateWindowExW               = user32.NewProc("CreateWindowExW")
	procDefWindowProcW                = user32.NewProc("DefWindowProcW")
	procDestroyWindow                 = user32.NewProc("DestroyWindow")
	procDispatchMessageW              = user32.NewProc("DispatchMessageW")
	procEnumDisplayMonitors           = user32.NewProc("EnumDisplayMonitors")
	procGetMessageW                   = user32.NewProc("GetMessageW")
	procGetMonitorInfoW               = user32.NewProc("GetMonitorInfoW")
	procGetWindowRect                 = user32.NewProc("GetWindowRect")
	procIsWindowVisible               = user32.NewProc("IsWindowVisible")
	procLoadCursorW                   = user32.NewProc("LoadCursorW")
	procPostThreadMessageW            = user32.NewProc("PostThreadMessageW")
	procRegisterClassExW              = user32.NewProc("RegisterClassExW")
	procSetForegroundWindow           = user32.NewProc("SetForegroundWindow")
	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetWindowDisplayAffinity      = user32.NewProc("SetWindowDisplayAffinity")
	procSetWindowPos                  = user32.NewProc("SetWindowPos")
	procShowWindow                    = user32.NewProc("ShowWindow")
	procTranslateMessage              = user32.NewProc("TranslateMessage")

	procGetCurrentThreadId = kernel32.NewProc("GetCurrentThreadId")
	procGetModuleHandleW   = kernel32.NewProc("GetModuleHandleW")

	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)
