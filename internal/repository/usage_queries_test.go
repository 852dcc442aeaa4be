package repository

import (
	"context"
	"testing"
	"time"

	repoerrors "foretime/internal/infrastructure/errors"
	"foretime/internal/types"
)

func TestGetRecentActivity(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	records := []types.UsageRecord{
		testRecord("old.exe", "old window", "", base, 10),
		testRecord("mid.exe", "mid window", "", base.Add(20*time.Minute), 20),
		testRecord("new.exe", "new window", "https://example.com", base.Add(40*time.Minute), 30),
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	got, err := repo.GetRecentActivity(ctx, base.Add(-time.Minute), 50)
	if err != nil {
		t.Fatalf("GetRecentActivity failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}

	// Newest first.
	if got[0].AppName != "new.exe" || got[2].AppName != "old.exe" {
		t.Errorf("unexpected ordering: %s, %s, %s", got[0].AppName, got[1].AppName, got[2].AppName)
	}

	// NULL url scans as empty string, extracted url survives the round trip.
	if got[0].URL != "https://example.com" {
		t.Errorf("url = %q, want https://example.com", got[0].URL)
	}
	if got[1].URL != "" {
		t.Errorf("url = %q for record without url, want empty", got[1].URL)
	}
}

func TestGetRecentActivity_SinceFiltersOldRows(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	base := time.Now().Add(-48 * time.Hour)

	records := []types.UsageRecord{
		testRecord("stale.exe", "two days ago", "", base, 10),
		testRecord("fresh.exe", "just now", "", time.Now(), 20),
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	got, err := repo.GetRecentActivity(ctx, time.Now().Add(-24*time.Hour), 50)
	if err != nil {
		t.Fatalf("GetRecentActivity failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records inside window, want 1", len(got))
	}
	if got[0].AppName != "fresh.exe" {
		t.Errorf("AppName = %q, want fresh.exe", got[0].AppName)
	}
}

func TestGetRecentActivity_LimitCapsResults(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	var records []types.UsageRecord
	for i := 0; i < 10; i++ {
		records = append(records, testRecord("app.exe", "window", "", now.Add(time.Duration(i)*time.Second), 1))
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	got, err := repo.GetRecentActivity(ctx, now.Add(-time.Minute), 3)
	if err != nil {
		t.Fatalf("GetRecentActivity failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d records, want limit of 3", len(got))
	}
}

func TestGetRecentActivity_RejectsNonPositiveLimit(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.GetRecentActivity(context.Background(), time.Now(), 0)
	if err == nil {
		t.Fatal("zero limit accepted")
	}
	if !repoerrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetRecentActivity_EmptyTableReturnsEmptySlice(t *testing.T) {
	repo := setupTestRepository(t)

	got, err := repo.GetRecentActivity(context.Background(), time.Now().Add(-time.Hour), 50)
	if err != nil {
		t.Fatalf("GetRecentActivity failed: %v", err)
	}
	if got == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d records from empty table", len(got))
	}
}

func TestGetKnownTargets(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	// Two flush intervals for the same identifier plus one other target.
	records := []types.UsageRecord{
		testRecord("msedge.exe", "GitHub - Microsoft Edge", "https://github.com", now.Add(-2*time.Minute), 25),
		testRecord("msedge.exe", "Pull requests - Microsoft Edge", "https://github.com", now.Add(-time.Minute), 30),
		testRecord("Code.exe", "main.go - project", "", now, 45),
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	targets, err := repo.GetKnownTargets(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetKnownTargets failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}

	byID := make(map[string]types.FlushedUsage)
	for _, target := range targets {
		byID[target.Target.Identifier] = target
	}

	edge, ok := byID["msedge.exe:https://github.com"]
	if !ok {
		t.Fatal("browser target missing from known targets")
	}
	if edge.Seconds != 55 {
		t.Errorf("browser target totals %d seconds, want 55", edge.Seconds)
	}
	// Descriptive columns come from the newest row for the identifier.
	if edge.Target.WindowTitle != "Pull requests - Microsoft Edge" {
		t.Errorf("WindowTitle = %q, want the newest row's title", edge.Target.WindowTitle)
	}

	code, ok := byID["Code.exe:main.go - project"]
	if !ok {
		t.Fatal("editor target missing from known targets")
	}
	if code.Seconds != 45 {
		t.Errorf("editor target totals %d seconds, want 45", code.Seconds)
	}
	if code.Target.URL != "" {
		t.Errorf("editor target URL = %q, want empty", code.Target.URL)
	}
}

func TestGetKnownTargets_WindowExcludesOldRows(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	records := []types.UsageRecord{
		testRecord("app.exe", "window", "", now.Add(-48*time.Hour), 100),
		testRecord("app.exe", "window", "", now, 10),
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	targets, err := repo.GetKnownTargets(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("GetKnownTargets failed: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1", len(targets))
	}
	if targets[0].Seconds != 10 {
		t.Errorf("total = %d, want only the in-window 10 seconds", targets[0].Seconds)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	records := []types.UsageRecord{
		testRecord("stale.exe", "old", "", now.Add(-48*time.Hour), 10),
		testRecord("stale.exe", "older", "", now.Add(-30*time.Hour), 10),
		testRecord("fresh.exe", "new", "", now, 10),
	}
	if err := repo.BatchInsertUsage(ctx, records); err != nil {
		t.Fatalf("BatchInsertUsage failed: %v", err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d rows, want 2", deleted)
	}
	if got := countRows(t, repo); got != 1 {
		t.Errorf("row count = %d after pruning, want 1", got)
	}
}

func TestDeleteOlderThan_NothingToDelete(t *testing.T) {
	repo := setupTestRepository(t)

	deleted, err := repo.DeleteOlderThan(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted %d rows from empty table", deleted)
	}
}
