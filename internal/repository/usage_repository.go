package repository

import (
	"database/sql"

	"foretime/internal/database"
	repoerrors "foretime/internal/infrastructure/errors"
	"foretime/internal/infrastructure/logging"

	"github.com/jmoiron/sqlx"
)

// BatchConfig holds configuration for batch inserts.
type BatchConfig struct {
	MaxBatchSize int
}

// DefaultBatchConfig returns sensible defaults for batch operations
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxBatchSize: 1000,
	}
}

// SQLiteRepository implements the UsageRepository interface using SQLite.
//
// ext is the statement executor: the plain connection normally, a
// transaction inside WithTransaction.
type SQLiteRepository struct {
	db          *sqlx.DB
	ext         sqlx.ExtContext
	dbService   database.Service
	retryConfig *repoerrors.RetryConfig
	batchConfig *BatchConfig
	logger      logging.Logger
}

var _ UsageRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository instance
func NewSQLiteRepository(dbService database.Service, logger logging.Logger) *SQLiteRepository {
	return NewSQLiteRepositoryWithConfig(dbService, nil, nil, logger)
}

// NewSQLiteRepositoryWithConfig creates a new SQLite repository instance with custom configuration
func NewSQLiteRepositoryWithConfig(dbService database.Service, retryConfig *repoerrors.RetryConfig, batchConfig *BatchConfig, logger logging.Logger) *SQLiteRepository {
	if retryConfig == nil {
		retryConfig = repoerrors.DefaultRetryConfig()
	}
	if batchConfig == nil {
		batchConfig = DefaultBatchConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	db := dbService.DBX()
	return &SQLiteRepository{
		db:          db,
		ext:         db,
		dbService:   dbService,
		retryConfig: retryConfig,
		batchConfig: batchConfig,
		logger:      logger,
	}
}

// classifyError classifies database errors into storage error codes
func (r *SQLiteRepository) classifyError(err error) repoerrors.ErrorCode {
	return repoerrors.ClassifyError(err)
}

// nullStringFromString converts string to sql.NullString
func (r *SQLiteRepository) nullStringFromString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
