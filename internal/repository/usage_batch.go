package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	repoerrors "foretime/internal/infrastructure/errors"
	"foretime/internal/infrastructure/logging"
	"foretime/internal/types"

	"github.com/jmoiron/sqlx"
)

const insertUsageSQL = `
INSERT INTO usage_logs (identifier, app_name, window_title, url, timestamp, duration)
VALUES (?, ?, ?, ?, ?, ?)`

// BatchInsertUsage appends one flush interval's records in a single
// transaction. Either every record lands or none do, so a failed flush
// never leaves a partially written interval behind.
func (r *SQLiteRepository) BatchInsertUsage(ctx context.Context, records []types.UsageRecord) error {
	start := time.Now()

	if len(records) == 0 {
		return nil
	}

	if len(records) > r.batchConfig.MaxBatchSize {
		return repoerrors.NewStorageErrorWithContext("BatchInsertUsage",
			errors.New("batch exceeds maximum size"),
			repoerrors.ErrCodeValidation, map[string]string{
				"batch_size": fmt.Sprintf("%d", len(records)),
				"max_size":   fmt.Sprintf("%d", r.batchConfig.MaxBatchSize),
			})
	}

	// Validate everything before touching the database.
	for i, record := range records {
		if err := validateUsageRecord(record); err != nil {
			return repoerrors.NewStorageErrorWithContext("BatchInsertUsage", err,
				repoerrors.ErrCodeValidation, map[string]string{
					"identifier":  record.Identifier,
					"batch_index": fmt.Sprintf("%d", i),
				})
		}
	}

	// Already inside WithTransaction: write through the bound transaction
	// instead of opening a nested one.
	if _, inTx := r.ext.(*sqlx.Tx); inTx {
		return r.insertRecords(ctx, records)
	}

	err := r.WithTransaction(ctx, func(repo UsageRepository) error {
		txRepo := repo.(*SQLiteRepository)
		return txRepo.insertRecords(ctx, records)
	})
	if err != nil {
		return err
	}

	logging.LogOperation(r.logger, "BatchInsertUsage", time.Since(start), map[string]any{
		"records": len(records),
	})
	return nil
}

// insertRecords writes records through the current executor, which inside
// WithTransaction is the transaction itself.
func (r *SQLiteRepository) insertRecords(ctx context.Context, records []types.UsageRecord) error {
	for i, record := range records {
		_, err := r.ext.ExecContext(ctx, insertUsageSQL,
			record.Identifier,
			record.AppName,
			record.WindowTitle,
			r.nullStringFromString(record.URL),
			record.Timestamp,
			record.Duration,
		)
		if err != nil {
			repoErr := repoerrors.NewStorageErrorWithContext("BatchInsertUsage", err, r.classifyError(err), map[string]string{
				"identifier":  record.Identifier,
				"batch_index": fmt.Sprintf("%d", i),
				"batch_size":  fmt.Sprintf("%d", len(records)),
			})
			logging.LogError(r.logger, repoErr, "BatchInsertUsage", map[string]any{
				"identifier":  record.Identifier,
				"batch_index": i,
				"batch_size":  len(records),
			})
			return repoErr
		}
	}
	return nil
}

func validateUsageRecord(record types.UsageRecord) error {
	if record.Identifier == "" {
		return errors.New("identifier must not be empty")
	}
	if record.AppName == "" {
		return errors.New("app name must not be empty")
	}
	if record.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if record.Timestamp <= 0 {
		return errors.New("timestamp must be set")
	}
	return nil
}
