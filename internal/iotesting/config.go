// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"strings"

	"github.com/avharvest/avharvest/pkg/config"
	"github.com/spf13/viper"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "avharvest_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It starts from defaults, applies AVHARVEST_DATABASE_* environment
// variables and forces the PostgreSQL driver with TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	v := viper.New()
	v.SetEnvPrefix("AVHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("database.host", "AVHARVEST_DATABASE_HOST")
	_ = v.BindEnv("database.port", "AVHARVEST_DATABASE_PORT")
	_ = v.BindEnv("database.user", "AVHARVEST_DATABASE_USER")
	_ = v.BindEnv("database.password", "AVHARVEST_DATABASE_PASSWORD")
	_ = v.BindEnv("database.ssl_mode", "AVHARVEST_DATABASE_SSL_MODE")

	var envCfg config.Config
	if err := v.Unmarshal(&envCfg); err == nil {
		cfg.Update(envCfg.ToOptions())
	}

	cfg.Update([]config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseDatabase(TestDatabaseName),
	})

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
