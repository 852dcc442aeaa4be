package web

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"foretime/internal/infrastructure/logging"
)

// edgePaths are the usual Edge install locations, checked in order.
var edgePaths = []string{
	`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
}

var chromePaths = []string{
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// OpenDashboard opens the dashboard in a browser window. On Windows it
// prefers an app-mode window (no tabs, no address bar) via Edge or Chrome
// and falls back to the default browser; elsewhere it uses the platform
// opener.
func OpenDashboard(addr string, logger logging.Logger) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	url := fmt.Sprintf("http://%s", addr)

	if runtime.GOOS == "windows" {
		for _, path := range append(append([]string{}, edgePaths...), chromePaths...) {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := exec.Command(path, "--app="+url, "--window-size=1000,700").Start(); err == nil {
				logger.Info("Opened dashboard app window", "url", url)
				return
			}
		}
	}

	if err := openDefault(url); err != nil {
		logger.Warn("Could not open browser, open the dashboard manually", "url", url, "error", err)
		return
	}
	logger.Info("Opened dashboard in default browser", "url", url)
}

func openDefault(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
