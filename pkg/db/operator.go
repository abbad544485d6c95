package db

import (
	"context"

	"github.com/avharvest/avharvest/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic PostgreSQL management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for the record store and the schema manager.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any of the given tables exists.
	// Used to determine if schema creation should ask for confirmation.
	HasTables(ctx context.Context, tableNames ...string) (bool, error)

	// DropTables drops the given tables if they exist.
	DropTables(ctx context.Context, tableNames ...string) error
}

// SchemaManager creates collection tables. It uses GORM AutoMigrate,
// so running it on existing tables only adds missing columns and indexes.
type SchemaManager interface {
	// Create creates tables of all record collections.
	Create(ctx context.Context) error
}
