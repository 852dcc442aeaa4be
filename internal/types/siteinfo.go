package types

// SiteInfo describes a tracked page resolved to its site and title.
type SiteInfo struct {
	URL   string `json:"url"`
	Site  string `json:"site"`            // og:site_name, else the bare host
	Title string `json:"title,omitempty"` // page <title>, empty when the fetch failed
	Error string `json:"error,omitempty"`
}
