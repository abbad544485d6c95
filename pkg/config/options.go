package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the store backend.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseURL sets a complete PostgreSQL connection string.
func OptDatabaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database URL", s) {
			c.Database.URL = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records written per bulk upsert.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptHarvestListingURL sets the listing page template.
// The template must contain the "{page}" placeholder.
func OptHarvestListingURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if !isValidString("Listing URL", s) {
			return
		}
		if !strings.Contains(s, PagePlaceholder) {
			warnPlaceholder(s)
			return
		}
		c.Harvest.ListingURL = s
	}
}

// OptHarvestFirstPage sets the number of the first listing page.
func OptHarvestFirstPage(i int) Option {
	return func(c *Config) {
		if isValidInt("First Page", i) {
			c.Harvest.FirstPage = i
		}
	}
}

// OptHarvestMaxPages sets the limit of listing pages per cycle.
func OptHarvestMaxPages(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Pages", i) {
			c.Harvest.MaxPages = i
		}
	}
}

// OptHarvestEnrichURL sets the prefix of enrichment search requests.
func OptHarvestEnrichURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Enrich URL", s) {
			c.Harvest.EnrichURL = s
		}
	}
}

// OptHarvestStaleDays sets the staleness window in days.
func OptHarvestStaleDays(i int) Option {
	return func(c *Config) {
		if isValidInt("Stale Days", i) {
			c.Harvest.StaleDays = i
		}
	}
}

// OptHarvestUserAgent sets the User-Agent header of HTTP requests.
func OptHarvestUserAgent(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("User Agent", s) {
			c.Harvest.UserAgent = s
		}
	}
}

// OptHarvestTimeoutSec sets the HTTP request timeout in seconds.
func OptHarvestTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Timeout", i) {
			c.Harvest.TimeoutSec = i
		}
	}
}

// OptHarvestRequestsPerSecond sets the HTTP request rate limit.
// Zero disables the limit.
func OptHarvestRequestsPerSecond(f float64) Option {
	return func(c *Config) {
		if isValidRate("Requests Per Second", f) {
			c.Harvest.RequestsPerSecond = f
		}
	}
}

// OptHarvestTagsFile sets the path to the tag vocabulary.
func OptHarvestTagsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tags File", s) {
			c.Harvest.TagsFile = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, data, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
