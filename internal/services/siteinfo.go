package services

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"foretime/internal/types"

	"github.com/gocolly/colly/v2"
)

// SiteInfoScraper resolves a tracked URL to its page title and site name
// so the dashboard can label browser targets with something friendlier
// than the raw URL. Results are cached per URL; a page is fetched at most
// once per process run.
type SiteInfoScraper struct {
	collector *colly.Collector

	mutex sync.Mutex
	cache map[string]*types.SiteInfo
}

// NewSiteInfoScraper creates a new site info scraper instance
func NewSiteInfoScraper() *SiteInfoScraper {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(5 * time.Second)

	// One page per site at a time; this runs beside the tracker and must
	// stay invisible in its latency profile.
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       time.Second,
	})

	return &SiteInfoScraper{
		collector: c,
		cache:     make(map[string]*types.SiteInfo),
	}
}

// Lookup resolves pageURL to its site info, serving repeated lookups from
// the cache. Failed fetches are cached too so an unreachable site is not
// re-fetched on every dashboard poll.
func (s *SiteInfoScraper) Lookup(pageURL string) (*types.SiteInfo, error) {
	host, err := hostOf(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}

	s.mutex.Lock()
	if cached, exists := s.cache[pageURL]; exists {
		s.mutex.Unlock()
		return cached, nil
	}
	s.mutex.Unlock()

	info := s.fetch(pageURL, host)

	s.mutex.Lock()
	s.cache[pageURL] = info
	s.mutex.Unlock()

	return info, nil
}

func (s *SiteInfoScraper) fetch(pageURL, host string) *types.SiteInfo {
	info := &types.SiteInfo{
		URL:  pageURL,
		Site: host,
	}

	// Each fetch gets its own collector; handlers registered on a shared
	// one would accumulate across lookups.
	collector := s.collector.Clone()

	collector.OnHTML("head title", func(e *colly.HTMLElement) {
		if info.Title == "" {
			info.Title = strings.TrimSpace(e.Text)
		}
	})
	collector.OnHTML(`head meta[property="og:site_name"]`, func(e *colly.HTMLElement) {
		if name := strings.TrimSpace(e.Attr("content")); name != "" {
			info.Site = name
		}
	})

	if err := collector.Visit(pageURL); err != nil {
		info.Error = err.Error()
		return info
	}
	collector.Wait()

	return info
}

func hostOf(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	return strings.TrimPrefix(u.Host, "www."), nil
}
