package services

import (
	"testing"
	"time"

	"foretime/internal/types"
)

func TestAggregationStore_RecordSampleAccumulates(t *testing.T) {
	store := NewAggregationStore()
	target := types.NewActivityTarget("Code.exe", "main.go - project", "")
	now := time.Now()

	for i := 0; i < 5; i++ {
		store.RecordSample(target, now.Add(time.Duration(i)*time.Second))
	}

	snapshot := store.Snapshot()
	if snapshot.TotalTargets != 1 {
		t.Fatalf("TotalTargets = %d, want 1", snapshot.TotalTargets)
	}
	if snapshot.ActiveApps[0].Seconds != 5 {
		t.Errorf("accumulated %d seconds, want 5", snapshot.ActiveApps[0].Seconds)
	}
	if snapshot.Current == nil || snapshot.Current.Identifier != target.Identifier {
		t.Error("current target does not match the sampled target")
	}
}

func TestAggregationStore_IdentifierStability(t *testing.T) {
	store := NewAggregationStore()
	now := time.Now()

	// Same browser URL with changing page titles stays one target.
	store.RecordSample(types.NewActivityTarget("msedge.exe", "Inbox - Edge", "https://mail.example.com"), now)
	store.RecordSample(types.NewActivityTarget("msedge.exe", "Sent - Edge", "https://mail.example.com"), now.Add(time.Second))

	snapshot := store.Snapshot()
	if snapshot.TotalTargets != 1 {
		t.Fatalf("TotalTargets = %d, want 1 for a stable identifier", snapshot.TotalTargets)
	}
	if snapshot.ActiveApps[0].Seconds != 2 {
		t.Errorf("accumulated %d seconds, want 2", snapshot.ActiveApps[0].Seconds)
	}
	// The descriptive title follows the newest sample.
	if snapshot.Current.WindowTitle != "Sent - Edge" {
		t.Errorf("WindowTitle = %q, want the newest title", snapshot.Current.WindowTitle)
	}
}

func TestAggregationStore_DrainForFlush(t *testing.T) {
	store := NewAggregationStore()
	now := time.Now()

	edge := types.NewActivityTarget("msedge.exe", "GitHub - Edge", "https://github.com")
	code := types.NewActivityTarget("Code.exe", "main.go - project", "")
	for i := 0; i < 3; i++ {
		store.RecordSample(edge, now)
	}
	store.RecordSample(code, now)

	flushTime := now.Add(30 * time.Second)
	records := store.DrainForFlush(flushTime)

	if len(records) != 2 {
		t.Fatalf("drained %d records, want 2", len(records))
	}
	// Ordered by identifier.
	if records[0].Identifier != code.Identifier || records[1].Identifier != edge.Identifier {
		t.Errorf("unexpected order: %s, %s", records[0].Identifier, records[1].Identifier)
	}
	if records[1].Duration != 3 || records[0].Duration != 1 {
		t.Errorf("durations = %d, %d; want 1, 3", records[0].Duration, records[1].Duration)
	}
	for _, record := range records {
		if record.Timestamp != flushTime.Unix() {
			t.Errorf("record stamped %d, want flush time %d", record.Timestamp, flushTime.Unix())
		}
	}
	if records[0].URL != "" || records[1].URL != "https://github.com" {
		t.Error("URLs did not survive the drain")
	}
}

func TestAggregationStore_DrainResetsOnlyUnflushed(t *testing.T) {
	store := NewAggregationStore()
	target := types.NewActivityTarget("Code.exe", "main.go - project", "")
	now := time.Now()

	for i := 0; i < 45; i++ {
		store.RecordSample(target, now)
	}
	store.DrainForFlush(now)
	for i := 0; i < 30; i++ {
		store.RecordSample(target, now)
	}

	// Lifetime keeps the full 75 seconds across the flush.
	snapshot := store.Snapshot()
	if snapshot.ActiveApps[0].Seconds != 75 {
		t.Errorf("lifetime = %d after flush, want 75", snapshot.ActiveApps[0].Seconds)
	}

	// A second drain only carries the new 30 seconds.
	records := store.DrainForFlush(now)
	if len(records) != 1 || records[0].Duration != 30 {
		t.Fatalf("second drain = %+v, want one record of 30 seconds", records)
	}
}

func TestAggregationStore_DrainSkipsIdleEntries(t *testing.T) {
	store := NewAggregationStore()
	now := time.Now()

	store.RecordSample(types.NewActivityTarget("idle.exe", "window", ""), now)
	store.DrainForFlush(now)

	// Nothing new accumulated; the entry must not produce a zero-duration row.
	records := store.DrainForFlush(now)
	if len(records) != 0 {
		t.Errorf("drained %d records from an idle store, want 0", len(records))
	}

	// The idle entry still shows in the snapshot.
	if snapshot := store.Snapshot(); snapshot.TotalTargets != 1 {
		t.Errorf("TotalTargets = %d, want idle entry retained", snapshot.TotalTargets)
	}
}

func TestAggregationStore_SeedTarget(t *testing.T) {
	store := NewAggregationStore()
	target := types.NewActivityTarget("Code.exe", "main.go - project", "")

	store.SeedTarget(target, 120)

	snapshot := store.Snapshot()
	if snapshot.ActiveApps[0].Seconds != 120 {
		t.Errorf("seeded lifetime = %d, want 120", snapshot.ActiveApps[0].Seconds)
	}
	// Seeding never marks anything unflushed.
	if records := store.DrainForFlush(time.Now()); len(records) != 0 {
		t.Errorf("seeded entry produced %d flush records, want 0", len(records))
	}
	// Seeded totals don't become the current target.
	if snapshot.Current != nil {
		t.Error("seeded entry became current target")
	}
}

func TestAggregationStore_SeedIgnoresLiveEntries(t *testing.T) {
	store := NewAggregationStore()
	target := types.NewActivityTarget("Code.exe", "main.go - project", "")
	now := time.Now()

	store.RecordSample(target, now)
	store.SeedTarget(target, 999)

	snapshot := store.Snapshot()
	if snapshot.ActiveApps[0].Seconds != 1 {
		t.Errorf("lifetime = %d, want live entry untouched by seed", snapshot.ActiveApps[0].Seconds)
	}
}

func TestAggregationStore_SnapshotOrdering(t *testing.T) {
	store := NewAggregationStore()
	now := time.Now()

	short := types.NewActivityTarget("short.exe", "a", "")
	long := types.NewActivityTarget("long.exe", "b", "")
	for i := 0; i < 2; i++ {
		store.RecordSample(short, now)
	}
	for i := 0; i < 10; i++ {
		store.RecordSample(long, now)
	}

	snapshot := store.Snapshot()
	if snapshot.ActiveApps[0].Identifier != long.Identifier {
		t.Errorf("longest-running target is %s, want %s first", snapshot.ActiveApps[0].Identifier, long.Identifier)
	}
}

func TestAggregationStore_SnapshotOnEmptyStore(t *testing.T) {
	store := NewAggregationStore()

	snapshot := store.Snapshot()
	if snapshot.Current != nil {
		t.Error("empty store has a current target")
	}
	if snapshot.TotalTargets != 0 || len(snapshot.ActiveApps) != 0 {
		t.Errorf("empty store snapshot = %+v", snapshot)
	}
}
