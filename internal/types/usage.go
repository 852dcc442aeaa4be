package types

import (
	"encoding/json"
	"time"
)

// ActivityTarget identifies one tracked foreground target: an application,
// or an application plus a site when the app is a recognized browser.
type ActivityTarget struct {
	Identifier  string `json:"identifier"`
	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
	URL         string `json:"url,omitempty"` // empty when no URL was extracted
}

// NewActivityTarget builds a target with its identifier derived from the
// app name plus the URL when one was extracted, else the window title.
// The derivation is deterministic: the same (app, url-or-title) pair always
// yields the same identifier.
func NewActivityTarget(appName, windowTitle, url string) ActivityTarget {
	suffix := windowTitle
	if url != "" {
		suffix = url
	}
	return ActivityTarget{
		Identifier:  appName + ":" + suffix,
		AppName:     appName,
		WindowTitle: windowTitle,
		URL:         url,
	}
}

// UsageRecord is one persisted row of usage_logs: the seconds accumulated
// for one identifier during one flush interval. Immutable after creation.
type UsageRecord struct {
	ID          int64  `db:"id" json:"-"`
	Identifier  string `db:"identifier" json:"identifier"`
	AppName     string `db:"app_name" json:"app_name"`
	WindowTitle string `db:"window_title" json:"window_title"`
	URL         string `db:"url" json:"url,omitempty"`
	Timestamp   int64  `db:"timestamp" json:"timestamp"` // unix seconds, flush time
	Duration    int64  `db:"duration" json:"duration"`   // seconds accumulated this interval
}

// FlushedUsage is one drained aggregation entry handed to the flusher.
type FlushedUsage struct {
	Target  ActivityTarget
	Seconds int64
}

// ActiveApp is one (identifier, running seconds) pair. It serializes as a
// two-element JSON array to match the dashboard contract.
type ActiveApp struct {
	Identifier string
	Seconds    int64
}

func (a ActiveApp) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Identifier, a.Seconds})
}

func (a *ActiveApp) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &a.Identifier); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &a.Seconds)
}

// StoreSnapshot is a point-in-time read-only view of the aggregation store.
type StoreSnapshot struct {
	Current      *ActivityTarget // most recently seen target, nil before the first sample
	ActiveApps   []ActiveApp     // running lifetime totals, longest first
	TotalTargets int             // distinct identifiers seen this run
}

// DashboardData is the snapshot object served to the polling dashboard.
type DashboardData struct {
	CurrentApp     string        `json:"current_app,omitempty"`
	CurrentWindow  string        `json:"current_window,omitempty"`
	CurrentURL     string        `json:"current_url,omitempty"`
	ActiveApps     []ActiveApp   `json:"active_apps"`
	RecentActivity []UsageRecord `json:"recent_activity"`
	TotalApps      int           `json:"total_apps"`
	Uptime         int64         `json:"uptime"` // seconds since process start
}

// RetentionCutoff returns the oldest timestamp still inside the retention
// window ending at now.
func RetentionCutoff(now time.Time, retention time.Duration) time.Time {
	return now.Add(-retention)
}
