package services

import (
	"sort"
	"sync"
	"time"

	"foretime/internal/types"
)

// storeEntry tracks one identifier's counters. unflushed holds seconds not
// yet persisted; lifetime keeps accumulating across flushes so the
// dashboard's running totals never dip after a flush.
type storeEntry struct {
	target    types.ActivityTarget
	unflushed int64
	lifetime  int64
	lastSeen  time.Time
}

// AggregationStore accumulates sampled seconds per identifier between
// flushes. All methods are safe for concurrent use; the sampler writes
// while the flusher drains and the dashboard reads.
type AggregationStore struct {
	mutex     sync.Mutex
	entries   map[string]*storeEntry
	currentID string
}

// NewAggregationStore creates an empty aggregation store.
func NewAggregationStore() *AggregationStore {
	return &AggregationStore{
		entries: make(map[string]*storeEntry),
	}
}

// RecordSample credits one second of foreground time to target. The stored
// window title and URL follow the newest sample so the dashboard shows the
// current page even when the identifier is unchanged.
func (s *AggregationStore) RecordSample(target types.ActivityTarget, at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.entries[target.Identifier]
	if !exists {
		entry = &storeEntry{target: target}
		s.entries[target.Identifier] = entry
	}

	entry.target = target
	entry.unflushed++
	entry.lifetime++
	entry.lastSeen = at
	s.currentID = target.Identifier
}

// SeedTarget pre-loads a lifetime total for an identifier, without marking
// anything as unflushed. Used on startup to restore totals already in the
// database. Seeding an identifier that has live samples is a no-op.
func (s *AggregationStore) SeedTarget(target types.ActivityTarget, seconds int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entries[target.Identifier]; exists {
		return
	}
	s.entries[target.Identifier] = &storeEntry{
		target:   target,
		lifetime: seconds,
	}
}

// DrainForFlush atomically collects every entry with unflushed seconds as
// usage records stamped with now, and resets their unflushed counters.
// Lifetime totals are untouched. Records come back ordered by identifier
// so a flush interval is deterministic.
func (s *AggregationStore) DrainForFlush(now time.Time) []types.UsageRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var records []types.UsageRecord
	for _, entry := range s.entries {
		if entry.unflushed == 0 {
			continue
		}
		records = append(records, types.UsageRecord{
			Identifier:  entry.target.Identifier,
			AppName:     entry.target.AppName,
			WindowTitle: entry.target.WindowTitle,
			URL:         entry.target.URL,
			Timestamp:   now.Unix(),
			Duration:    entry.unflushed,
		})
		entry.unflushed = 0
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Identifier < records[j].Identifier
	})
	return records
}

// Snapshot returns a point-in-time view for the dashboard: the most
// recently seen target, lifetime totals sorted longest first, and the
// count of distinct identifiers.
func (s *AggregationStore) Snapshot() types.StoreSnapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snapshot := types.StoreSnapshot{
		ActiveApps:   make([]types.ActiveApp, 0, len(s.entries)),
		TotalTargets: len(s.entries),
	}

	if current, exists := s.entries[s.currentID]; exists {
		target := current.target
		snapshot.Current = &target
	}

	for _, entry := range s.entries {
		snapshot.ActiveApps = append(snapshot.ActiveApps, types.ActiveApp{
			Identifier: entry.target.Identifier,
			Seconds:    entry.lifetime,
		})
	}
	sort.Slice(snapshot.ActiveApps, func(i, j int) bool {
		if snapshot.ActiveApps[i].Seconds != snapshot.ActiveApps[j].Seconds {
			return snapshot.ActiveApps[i].Seconds > snapshot.ActiveApps[j].Seconds
		}
		return snapshot.ActiveApps[i].Identifier < snapshot.ActiveApps[j].Identifier
	})

	return snapshot
}
