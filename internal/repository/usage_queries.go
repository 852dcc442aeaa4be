package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	repoerrors "foretime/internal/infrastructure/errors"
	"foretime/internal/types"

	"github.com/jmoiron/sqlx"
)

const recentActivitySQL = `
SELECT id, identifier, app_name, window_title, COALESCE(url, '') AS url, timestamp, duration
FROM usage_logs
WHERE timestamp >= ?
ORDER BY timestamp DESC, id DESC
LIMIT ?`

// knownTargetsSQL totals each identifier inside the window and pulls the
// descriptive columns from its newest row.
const knownTargetsSQL = `
SELECT u.identifier, u.app_name, u.window_title, COALESCE(u.url, '') AS url, t.seconds
FROM usage_logs u
JOIN (
    SELECT identifier, SUM(duration) AS seconds, MAX(id) AS max_id
    FROM usage_logs
    WHERE timestamp >= ?
    GROUP BY identifier
) t ON u.id = t.max_id
ORDER BY u.identifier`

const deleteOlderThanSQL = `DELETE FROM usage_logs WHERE timestamp < ?`

// GetRecentActivity returns the newest usage rows at or after since, newest
// first, capped at limit.
func (r *SQLiteRepository) GetRecentActivity(ctx context.Context, since time.Time, limit int) ([]types.UsageRecord, error) {
	if limit <= 0 {
		return nil, repoerrors.NewStorageErrorWithContext("GetRecentActivity",
			errors.New("limit must be positive"),
			repoerrors.ErrCodeValidation, map[string]string{
				"limit": fmt.Sprintf("%d", limit),
			})
	}

	var records []types.UsageRecord
	err := sqlx.SelectContext(ctx, r.ext, &records, recentActivitySQL, since.Unix(), limit)
	if err != nil {
		return nil, repoerrors.NewStorageErrorWithContext("GetRecentActivity", err, r.classifyError(err), map[string]string{
			"since": since.Format(time.RFC3339),
			"limit": fmt.Sprintf("%d", limit),
		})
	}

	if records == nil {
		records = []types.UsageRecord{}
	}
	return records, nil
}

// knownTargetRow is the flat scan shape for GetKnownTargets.
type knownTargetRow struct {
	Identifier  string `db:"identifier"`
	AppName     string `db:"app_name"`
	WindowTitle string `db:"window_title"`
	URL         string `db:"url"`
	Seconds     int64  `db:"seconds"`
}

// GetKnownTargets returns per-identifier duration totals for rows at or
// after since. The aggregation store seeds from this on startup so lifetime
// totals survive a restart.
func (r *SQLiteRepository) GetKnownTargets(ctx context.Context, since time.Time) ([]types.FlushedUsage, error) {
	var rows []knownTargetRow
	err := sqlx.SelectContext(ctx, r.ext, &rows, knownTargetsSQL, since.Unix())
	if err != nil {
		return nil, repoerrors.NewStorageErrorWithContext("GetKnownTargets", err, r.classifyError(err), map[string]string{
			"since": since.Format(time.RFC3339),
		})
	}

	targets := make([]types.FlushedUsage, len(rows))
	for i, row := range rows {
		targets[i] = types.FlushedUsage{
			Target: types.ActivityTarget{
				Identifier:  row.Identifier,
				AppName:     row.AppName,
				WindowTitle: row.WindowTitle,
				URL:         row.URL,
			},
			Seconds: row.Seconds,
		}
	}
	return targets, nil
}

// DeleteOlderThan removes rows whose timestamp falls before cutoff.
func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.ext.ExecContext(ctx, deleteOlderThanSQL, cutoff.Unix())
	if err != nil {
		return 0, repoerrors.NewStorageErrorWithContext("DeleteOlderThan", err, r.classifyError(err), map[string]string{
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, repoerrors.NewStorageError("DeleteOlderThan", err, r.classifyError(err))
	}

	if deleted > 0 {
		r.logger.Info("Pruned old usage rows", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}
