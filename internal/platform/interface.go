package platform

// ForegroundInfo describes the window that currently has input focus.
type ForegroundInfo struct {
	App   string `json:"app"`   // process image name, e.g. "msedge.exe"
	Title string `json:"title"` // window title bar text
	PID   int32  `json:"pid"`
}

// ProbeAPI defines the platform-specific foreground window probe.
type ProbeAPI interface {
	// ForegroundWindow returns the focused window, or nil when there is
	// none (lock screen, empty desktop, probe failure).
	ForegroundWindow() *ForegroundInfo
}
