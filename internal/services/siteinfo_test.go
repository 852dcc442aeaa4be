package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const siteInfoPage = `<!DOCTYPE html>
<html>
<head>
	<title>Example Page</title>
	<meta property="og:site_name" content="Example Site">
</head>
<body>hello</body>
</html>`

func TestSiteInfoScraper_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(siteInfoPage))
	}))
	defer server.Close()

	scraper := NewSiteInfoScraper()
	info, err := scraper.Lookup(server.URL + "/page")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if info.Title != "Example Page" {
		t.Errorf("Title = %q, want Example Page", info.Title)
	}
	if info.Site != "Example Site" {
		t.Errorf("Site = %q, want og:site_name value", info.Site)
	}
	if info.Error != "" {
		t.Errorf("Error = %q, want empty", info.Error)
	}
}

func TestSiteInfoScraper_LookupCachesResults(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(siteInfoPage))
	}))
	defer server.Close()

	scraper := NewSiteInfoScraper()
	for i := 0; i < 3; i++ {
		if _, err := scraper.Lookup(server.URL); err != nil {
			t.Fatalf("Lookup %d failed: %v", i, err)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (cached)", got)
	}
}

func TestSiteInfoScraper_LookupFallsBackToHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head></head><body>bare</body></html>"))
	}))
	defer server.Close()

	scraper := NewSiteInfoScraper()
	info, err := scraper.Lookup(server.URL)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// No title, no og:site_name: the host carries the label.
	if info.Title != "" {
		t.Errorf("Title = %q, want empty", info.Title)
	}
	if info.Site == "" {
		t.Error("Site is empty, want host fallback")
	}
}

func TestSiteInfoScraper_LookupRejectsInvalidURL(t *testing.T) {
	scraper := NewSiteInfoScraper()

	if _, err := scraper.Lookup("not a url"); err == nil {
		t.Error("invalid URL accepted")
	}
	if _, err := scraper.Lookup(""); err == nil {
		t.Error("empty URL accepted")
	}
}

func TestSiteInfoScraper_UnreachableSiteCachedAsError(t *testing.T) {
	scraper := NewSiteInfoScraper()

	// Closed server: the fetch fails but the failure is recorded, not fatal.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	info, err := scraper.Lookup(url)
	if err != nil {
		t.Fatalf("Lookup returned error for unreachable site: %v", err)
	}
	if info.Error == "" {
		t.Error("Error is empty for unreachable site")
	}

	// Second lookup serves the cached failure.
	again, err := scraper.Lookup(url)
	if err != nil {
		t.Fatalf("cached Lookup failed: %v", err)
	}
	if again != info {
		t.Error("unreachable site was fetched again instead of served from cache")
	}
}
