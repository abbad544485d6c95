// Package harvest defines the contracts of the crawl-and-update cycle and
// of the collaborators it drives. Implementations live in internal/io*
// packages.
package harvest

import (
	"context"
	"iter"
	"time"

	"github.com/avharvest/avharvest/pkg/record"
)

// Fetcher turns a URL into raw page text.
type Fetcher interface {
	// Fetch returns the page body. Any error means the page is
	// unfetchable.
	Fetch(ctx context.Context, url string) (string, error)
}

// Enrichment holds the fields supplied by the secondary lookup source.
// Nil fields were not found.
type Enrichment struct {
	Model *string
	Title *string
}

// Enricher queries the secondary lookup source.
type Enricher interface {
	// Lookup never fails; problems produce an empty Enrichment.
	Lookup(ctx context.Context, searchCode string) Enrichment
}

// LinkSource discovers item URLs on a paginated listing.
type LinkSource interface {
	// Batches yields one batch of raw URLs per listing page. The sequence
	// is finite; a non-nil error ends it.
	Batches(ctx context.Context) iter.Seq2[[]string, error]
}

// Store keeps records in named collections. URL is the identity of a
// record within a collection.
type Store interface {
	// Exists reports whether a record with the URL is in the collection.
	Exists(ctx context.Context, url string, c record.Collection) (bool, error)

	// UpdateDate returns the last update time of a record, or nil when
	// the record is absent or was never updated.
	UpdateDate(ctx context.Context, url string, c record.Collection) (*time.Time, error)

	// Backlog returns records that were registered but never extracted,
	// in registration order.
	Backlog(ctx context.Context, c record.Collection) ([]record.Record, error)

	// UpsertMany inserts records or updates them in place. Only non-nil
	// fields overwrite stored values.
	UpsertMany(ctx context.Context, recs []record.Record, c record.Collection) error

	// Delete removes the record with the URL. Deleting an absent record
	// is not an error.
	Delete(ctx context.Context, url string, c record.Collection) error

	// URLKeys returns URLs of all records in the collection.
	URLKeys(ctx context.Context, c record.Collection) ([]string, error)

	// RecordsByURLs returns stored records for the given URLs. Unknown
	// URLs are ignored.
	RecordsByURLs(ctx context.Context, urls []string, c record.Collection) ([]record.Record, error)

	// ReplaceAll makes recs the only content of the collection.
	ReplaceAll(ctx context.Context, recs []record.Record, c record.Collection) error

	// Close releases the resources of the store.
	Close() error
}

// Extractor builds a record out of a fetched page.
type Extractor interface {
	// Extract returns nil record and nil error when the page cannot give
	// a record, which means the URL has to be forgotten. Errors are
	// reserved for infrastructure failures.
	Extract(ctx context.Context, url, pageText string) (*record.Record, error)
}

// Updater runs the crawl-and-update cycle.
type Updater interface {
	// Update drains the backlog, ingests newly discovered links and
	// rebuilds the new-record snapshot.
	Update(ctx context.Context) (*Stats, error)

	// Diff only rebuilds the new-record snapshot and returns its size.
	Diff(ctx context.Context) (int, error)
}

// Stats summarizes one update cycle.
type Stats struct {
	// Backlog is the number of records found in the backlog.
	Backlog int

	// Links is the number of URLs received from the link source.
	Links int

	// Processed is the number of URLs that went through extraction.
	Processed int

	// Skipped is the number of URLs that were still fresh.
	Skipped int

	// Upserted is the number of successful extractions.
	Upserted int

	// Deleted is the number of URLs forgotten after failed extraction.
	Deleted int

	// New is the size of the new-record snapshot.
	New int

	Duration time.Duration
}
