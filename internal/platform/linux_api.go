//go:build linux

package platform

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// LinuxAPI implements ProbeAPI for Linux desktops running X11. It shells
// out to xdotool for the focused window and resolves the owning process
// through the proc filesystem.
type LinuxAPI struct{}

// NewLinuxAPI creates a new Linux probe instance
func NewLinuxAPI() *LinuxAPI {
	return &LinuxAPI{}
}

// NewProbe creates a new ProbeAPI instance for Linux
func NewProbe() ProbeAPI {
	return NewLinuxAPI()
}

// ForegroundWindow returns the focused X11 window, or nil on Wayland
// sessions and headless machines where xdotool has nothing to report.
func (l *LinuxAPI) ForegroundWindow() *ForegroundInfo {
	pid := l.activeWindowPID()
	if pid <= 0 {
		return nil
	}

	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}
	name, err := proc.Name()
	if err != nil || name == "" {
		return nil
	}

	return &ForegroundInfo{
		App:   name,
		Title: l.activeWindowTitle(),
		PID:   pid,
	}
}

func (l *LinuxAPI) activeWindowPID() int32 {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowpid").Output()
	if err != nil {
		return 0
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 32)
	if err != nil {
		return 0
	}
	return int32(pid)
}

func (l *LinuxAPI) activeWindowTitle() string {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
