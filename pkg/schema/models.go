// Package schema provides the table model shared by all record
// collections. Every collection is a table with the same columns.
package schema

import (
	"time"
)

// Video is one stored record. The `gorm` tags drive AutoMigrate on
// PostgreSQL, the `db` and `ddl` tags generate SQLite DDL.
type Video struct {
	// ID is UUID v5 generated from the URL.
	ID string `gorm:"type:uuid;primaryKey" db:"id" ddl:"TEXT PRIMARY KEY"`

	// Seq keeps registration order of records. SQLite uses rowid instead.
	Seq int64 `gorm:"autoIncrement;not null;index"`

	// URL is the identity of a record within a collection.
	URL string `gorm:"type:text;not null;uniqueIndex" db:"url" ddl:"TEXT NOT NULL UNIQUE"`

	// Code is the upper-cased identifier from the URL.
	Code *string `gorm:"type:varchar(100)" db:"code" ddl:"TEXT"`

	// SearchCode is the normalized code used for enrichment.
	SearchCode *string `gorm:"type:varchar(100)" db:"search_code" ddl:"TEXT"`

	Title  *string `gorm:"type:text" db:"title" ddl:"TEXT"`
	Models *string `gorm:"type:text" db:"models" ddl:"TEXT"`
	ImgURL *string `gorm:"type:text" db:"img_url" ddl:"TEXT"`

	// Count is the view count.
	Count *int `gorm:"type:integer" db:"count" ddl:"INTEGER"`

	// Tags is a JSON array of canonical tags.
	Tags []string `gorm:"serializer:json;type:jsonb" db:"tags" ddl:"TEXT"`

	// UpdateDate is null until the first successful extraction.
	// SQLite keeps it as RFC 3339 text.
	UpdateDate *time.Time `gorm:"type:timestamptz;index" db:"update_date" ddl:"TEXT"`
}
