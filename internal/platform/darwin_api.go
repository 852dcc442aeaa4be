//go:build darwin

package platform

import (
	"os/exec"
	"strconv"
	"strings"
)

// DarwinAPI implements ProbeAPI for macOS via osascript. System Events
// needs the Accessibility permission; without it the probe returns nil.
type DarwinAPI struct{}

// NewDarwinAPI creates a new macOS probe instance
func NewDarwinAPI() *DarwinAPI {
	return &DarwinAPI{}
}

// NewProbe creates a new ProbeAPI instance for macOS
func NewProbe() ProbeAPI {
	return NewDarwinAPI()
}

const frontmostScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set appPid to unix id of frontApp
	set winTitle to ""
	try
		set winTitle to name of front window of frontApp
	end try
	return appName & "\n" & appPid & "\n" & winTitle
end tell`

// ForegroundWindow returns the frontmost application, or nil when the
// script fails or the permission is missing.
func (d *DarwinAPI) ForegroundWindow() *ForegroundInfo {
	out, err := exec.Command("osascript", "-e", frontmostScript).Output()
	if err != nil {
		return nil
	}

	parts := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 3)
	if len(parts) < 2 || parts[0] == "" {
		return nil
	}

	pid, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return nil
	}

	info := &ForegroundInfo{
		App: parts[0],
		PID: int32(pid),
	}
	if len(parts) == 3 {
		info.Title = parts[2]
	}
	return info
}
