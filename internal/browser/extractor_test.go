package browser

import "testing"

func TestForApp(t *testing.T) {
	tests := []struct {
		app       string
		isBrowser bool
	}{
		{"chrome.exe", true},
		{"msedge.exe", true},
		{"MSEdge.exe", true},
		{"brave.exe", true},
		{"firefox.exe", true},
		{"firefox", true},
		{"Code.exe", false},
		{"explorer.exe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			extractor := ForApp(tt.app)
			if (extractor != nil) != tt.isBrowser {
				t.Errorf("ForApp(%q) browser = %v, want %v", tt.app, extractor != nil, tt.isBrowser)
			}
		})
	}
}

func TestChromiumExtract(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantURL string
		wantOK  bool
	}{
		{
			name:    "url in last segment",
			title:   "Example Domain - https://example.com",
			wantURL: "https://example.com",
			wantOK:  true,
		},
		{
			name:    "scheme without http prefix",
			title:   "FTP listing - ftp://files.example.com",
			wantURL: "ftp://files.example.com",
			wantOK:  true,
		},
		{
			name:   "plain page title with browser suffix",
			title:  "New Tab - Google Chrome",
			wantOK: false,
		},
		{
			name:   "no separator at all",
			title:  "msedge",
			wantOK: false,
		},
		{
			name:   "empty title",
			title:  "",
			wantOK: false,
		},
		{
			name:    "multiple separators keep only the last segment",
			title:   "Issue #42 - repo - https://github.com/owner/repo",
			wantURL: "https://github.com/owner/repo",
			wantOK:  true,
		},
	}

	extractor := chromiumExtractor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := extractor.Extract(tt.title)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if url != tt.wantURL {
				t.Errorf("Extract(%q) = %q, want %q", tt.title, url, tt.wantURL)
			}
		})
	}
}

func TestFirefoxExtract(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantURL string
		wantOK  bool
	}{
		{
			name:    "hyphen separator with url",
			title:   "https://example.com - Mozilla Firefox",
			wantURL: "https://example.com",
			wantOK:  true,
		},
		{
			name:    "pipe separator with url",
			title:   "https://example.com | Mozilla Firefox",
			wantURL: "https://example.com",
			wantOK:  true,
		},
		{
			name:    "em dash separator with url",
			title:   "https://example.com — Mozilla Firefox",
			wantURL: "https://example.com",
			wantOK:  true,
		},
		{
			name:   "page title only",
			title:  "Example Domain - Mozilla Firefox",
			wantOK: false,
		},
		{
			name:   "no firefox suffix",
			title:  "https://example.com",
			wantOK: false,
		},
	}

	extractor := firefoxExtractor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := extractor.Extract(tt.title)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if url != tt.wantURL {
				t.Errorf("Extract(%q) = %q, want %q", tt.title, url, tt.wantURL)
			}
		})
	}
}
