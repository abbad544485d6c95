// Package config provides configuration management for avharvest.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, url, host, port, user, password, database, ssl_mode,
//     path, batch_size
//   - Harvest: listing_url, first_page, max_pages, enrich_url, stale_days,
//     user_agent, timeout_sec, requests_per_second, tags_file
//   - Log: level, format, destination
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use AVHARVEST_ prefix with underscores for nesting:
//
//	AVHARVEST_DATABASE_DRIVER=sqlite
//	AVHARVEST_DATABASE_HOST=localhost
//	AVHARVEST_HARVEST_LISTING_URL=https://example.com/list?page={page}
//	AVHARVEST_LOG_LEVEL=info
package config

import (
	"fmt"
	"net/url"
)

// Config represents the complete avharvest configuration.
type Config struct {
	// Database contains settings of the document store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Harvest contains settings of the crawl-and-update cycle.
	Harvest HarvestConfig `mapstructure:"harvest" yaml:"harvest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains document store connection parameters.
type DatabaseConfig struct {
	// Driver selects the store backend: "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// URL is a complete PostgreSQL connection string. When set, it takes
	// precedence over Host, Port, User, Password, Database and SSLMode.
	URL string `mapstructure:"url" yaml:"url"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file. Empty means the default file
	// in the data directory (see DataDir).
	Path string `mapstructure:"path" yaml:"path"`

	// BatchSize is the maximum number of records written by one bulk
	// upsert statement.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// HarvestConfig contains settings of the crawl-and-update cycle.
type HarvestConfig struct {
	// ListingURL is the template of listing pages. The "{page}"
	// placeholder is replaced by the page number.
	ListingURL string `mapstructure:"listing_url" yaml:"listing_url"`

	// FirstPage is the number of the first listing page.
	FirstPage int `mapstructure:"first_page" yaml:"first_page"`

	// MaxPages limits the number of listing pages visited during one
	// cycle. Zero means no limit.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// EnrichURL is the prefix of enrichment search requests. The
	// normalized code is appended to it.
	EnrichURL string `mapstructure:"enrich_url" yaml:"enrich_url"`

	// StaleDays is the staleness window. A record updated no more than
	// StaleDays days ago is not fetched again.
	StaleDays int `mapstructure:"stale_days" yaml:"stale_days"`

	// UserAgent is sent with every HTTP request.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// TimeoutSec is the HTTP request timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RequestsPerSecond limits the rate of HTTP requests.
	// Zero means no limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// TagsFile is the path to the tag vocabulary. Empty means
	// tags.json in the config directory.
	TagsFile string `mapstructure:"tags_file" yaml:"tags_file"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "sqlite",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "avharvest",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Harvest: HarvestConfig{
			ListingURL: "https://www.example.com/videos?page={page}",
			FirstPage:  1,
			EnrichURL:  "https://indexav.com/search?keyword=",
			StaleDays:  3,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) " +
				"Chrome/120.0.0.0 Safari/537.36",
			TimeoutSec:        30,
			RequestsPerSecond: 2,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}

// DSN returns the single connection string of the PostgreSQL store.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// SQLitePath returns the SQLite database file location.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return SQLiteFilePath(c.HomeDir)
}

// TagsPath returns the tag vocabulary location.
func (c *Config) TagsPath() string {
	if c.Harvest.TagsFile != "" {
		return c.Harvest.TagsFile
	}
	return TagsFilePath(c.HomeDir)
}
