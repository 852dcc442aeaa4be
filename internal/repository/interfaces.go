package repository

import (
	"context"
	"time"

	"foretime/internal/types"
)

// UsageRepository is the persistence boundary for the usage log.
//
// All writes are append-only: a flush interval becomes one batch of rows
// and existing rows are never updated.
type UsageRepository interface {
	// BatchInsertUsage appends one flush interval's records in a single
	// transaction. Either every record lands or none do.
	BatchInsertUsage(ctx context.Context, records []types.UsageRecord) error

	// GetRecentActivity returns the newest rows at or after since,
	// newest first, capped at limit.
	GetRecentActivity(ctx context.Context, since time.Time, limit int) ([]types.UsageRecord, error)

	// GetKnownTargets returns the per-identifier duration totals for rows
	// at or after since. Used to warm the aggregation store on startup.
	GetKnownTargets(ctx context.Context, since time.Time) ([]types.FlushedUsage, error)

	// DeleteOlderThan removes rows whose timestamp falls before cutoff and
	// reports how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTransaction runs fn inside a transaction; repository calls made
	// through fn's argument share it. fn returning an error rolls back.
	WithTransaction(ctx context.Context, fn func(repo UsageRepository) error) error
}
