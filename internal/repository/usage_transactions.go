package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repoerrors "foretime/internal/infrastructure/errors"
	"foretime/internal/infrastructure/logging"
)

// WithTransaction executes a function within a database transaction with retry logic
func (r *SQLiteRepository) WithTransaction(ctx context.Context, fn func(repo UsageRepository) error) error {
	start := time.Now()

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			repoErr := repoerrors.NewStorageError("WithTransaction.Begin", err, r.classifyError(err))
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error beginning transaction", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "WithTransaction.Begin", nil)
			}
			return repoErr
		}

		var originalErr error
		var committed bool
		defer func() {
			if !committed && tx != nil {
				if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
					r.logger.Debug("Failed to rollback transaction in WithTransaction",
						"rollback_error", rollbackErr,
						"original_error", originalErr)
				}
			}
		}()

		// A repository bound to the transaction; same config, tx executor.
		txRepo := &SQLiteRepository{
			db:          r.db,
			ext:         tx,
			dbService:   r.dbService,
			retryConfig: r.retryConfig,
			batchConfig: r.batchConfig,
			logger:      r.logger,
		}

		if err := fn(txRepo); err != nil {
			// The function is expected to return proper storage errors;
			// don't wrap them again.
			originalErr = err
			r.logger.Debug("Transaction function failed", "error", err)
			return err
		}

		if err := tx.Commit(); err != nil {
			originalErr = err
			repoErr := repoerrors.NewStorageError("WithTransaction.Commit", err, r.classifyError(err))
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error committing transaction", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "WithTransaction.Commit", nil)
			}
			return repoErr
		}
		committed = true

		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "WithTransaction", time.Since(start), nil)
	}

	return err
}
