//go:build windows

package platform

import (
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	kernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	psapi                        = windows.NewLazySystemDLL("psapi.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procOpenProcess              = kernel32.NewProc("OpenProcess")
	procCloseHandle              = kernel32.NewProc("CloseHandle")
	procGetModuleFileNameExW     = psapi.NewProc("GetModuleFileNameExW")
)

// WindowsAPI implements ProbeAPI for the Windows platform.
type WindowsAPI struct{}

// NewWindowsAPI creates a new Windows probe instance
func NewWindowsAPI() *WindowsAPI {
	return &WindowsAPI{}
}

// NewProbe creates a new ProbeAPI instance for Windows
func NewProbe() ProbeAPI {
	return NewWindowsAPI()
}

// ForegroundWindow reads the focused window via GetForegroundWindow and
// resolves its process image name. Returns nil when nothing has focus.
func (w *WindowsAPI) ForegroundWindow() *ForegroundInfo {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil
	}

	var processID uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&processID)))
	if processID == 0 {
		return nil
	}

	app := w.processImageName(processID)
	if app == "" {
		return nil
	}

	return &ForegroundInfo{
		App:   app,
		Title: w.windowTitle(hwnd),
		PID:   int32(processID),
	}
}

// windowTitle reads the title bar text. An empty title is still a valid
// window, so failures return "".
func (w *WindowsAPI) windowTitle(hwnd uintptr) string {
	var buffer [512]uint16
	length, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buffer[0])), uintptr(len(buffer)))
	if length == 0 {
		return ""
	}
	return windows.UTF16ToString(buffer[:length])
}

// processImageName resolves a pid to its executable base name, extension
// included, matching what users see in Task Manager.
func (w *WindowsAPI) processImageName(processID uint32) string {
	// PROCESS_QUERY_INFORMATION | PROCESS_VM_READ
	hProcess, _, _ := procOpenProcess.Call(0x0400|0x0010, 0, uintptr(processID))
	if hProcess == 0 {
		return ""
	}
	defer procCloseHandle.Call(hProcess)

	var buffer [windows.MAX_PATH]uint16
	ret, _, _ := procGetModuleFileNameExW.Call(hProcess, 0, uintptr(unsafe.Pointer(&buffer[0])), windows.MAX_PATH)
	if ret == 0 {
		return ""
	}

	exePath := windows.UTF16ToString(buffer[:])
	if exePath == "" {
		return ""
	}
	return filepath.Base(exePath)
}
