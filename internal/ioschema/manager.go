// Package ioschema implements the SchemaManager interface for the
// PostgreSQL store. This is an impure I/O package that wraps GORM
// AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/avharvest/avharvest/pkg/db"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/avharvest/avharvest/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the db.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) db.SchemaManager {
	return &manager{operator: op}
}

// Create creates tables of all record collections.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx), TableNames()...); err != nil {
		return CreateSchemaError(err)
	}

	return nil
}

// TableNames returns table names of all record collections.
func TableNames() []string {
	cs := record.Collections()
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = string(c)
	}
	return res
}
