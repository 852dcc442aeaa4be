// Package browser extracts page URLs from browser window titles so that
// browser time can be attributed per site instead of per browser.
package browser

import "strings"

// Extractor pulls a URL (or site name) out of a window title. Extract
// reports false when the title carries nothing usable, in which case the
// caller falls back to the raw title.
type Extractor interface {
	Extract(windowTitle string) (string, bool)
}

// ForApp returns the extractor matching a process name, or nil when the
// process is not a recognized browser. Matching is case-insensitive and
// substring-based so "msedge.exe", "MSEdge.exe" and "msedge" all resolve.
func ForApp(appName string) Extractor {
	app := strings.ToLower(appName)
	switch {
	case strings.Contains(app, "chrome"),
		strings.Contains(app, "msedge"),
		strings.Contains(app, "brave"):
		return chromiumExtractor{}
	case strings.Contains(app, "firefox"):
		return firefoxExtractor{}
	default:
		return nil
	}
}

// chromiumExtractor handles Chrome, Edge and Brave. These browsers title
// windows as "Page Title - Browser Name"; some pages put their URL in the
// title's last segment.
type chromiumExtractor struct{}

func (chromiumExtractor) Extract(windowTitle string) (string, bool) {
	parts := strings.Split(windowTitle, " - ")
	if len(parts) < 2 {
		return "", false
	}
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "http") || strings.Contains(last, "://") {
		return last, true
	}
	return "", false
}

// firefoxExtractor handles Firefox, which appends its product name to the
// title with a varying separator.
type firefoxExtractor struct{}

var firefoxSuffixes = []string{
	" - Mozilla Firefox",
	" | Mozilla Firefox",
	" — Mozilla Firefox",
}

func (firefoxExtractor) Extract(windowTitle string) (string, bool) {
	for _, suffix := range firefoxSuffixes {
		pos := strings.Index(windowTitle, suffix)
		if pos < 0 {
			continue
		}
		title := windowTitle[:pos]
		if strings.HasPrefix(title, "http") || strings.Contains(title, "://") {
			return title, true
		}
	}
	return "", false
}
