package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Service is the database lifecycle consumed by the repository layer.
type Service interface {
	Connect(ctx context.Context, config *Config) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	DB() *sql.DB
	DBX() *sqlx.DB
}

// MigrationManager runs and inspects schema migrations.
type MigrationManager interface {
	RunMigrations(ctx context.Context) error
	GetCurrentVersion(ctx context.Context) (int64, error)
	ValidateMigrations() error
}
