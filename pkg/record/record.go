// Package record defines the metadata record of one item page and the
// names of the collections that hold such records.
package record

import (
	"time"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// Collection is the name of a logical set of records in the store.
type Collection string

const (
	// Canonical is the stable set of previously accepted records.
	Canonical Collection = "videos"

	// Updating is the working set. It receives every discovered URL
	// and every refresh.
	Updating Collection = "videos_update"

	// Fresh is the snapshot of records present in Updating but absent
	// from Canonical, rewritten at the end of every update cycle.
	Fresh Collection = "videos_new"
)

// Collections returns all collections known to the store.
func Collections() []Collection {
	return []Collection{Canonical, Updating, Fresh}
}

// Record is the metadata of one item page, identified by its URL.
// Nil fields are "not set": a store upsert leaves the stored value of
// such fields untouched.
type Record struct {
	// URL is the identity of the record within a collection.
	URL string `json:"url"`

	// Code is the upper-cased item identifier found in the URL.
	Code *string `json:"code,omitempty"`

	// SearchCode is the provider-normalized Code used for enrichment.
	SearchCode *string `json:"search_code,omitempty"`

	Title  *string `json:"title,omitempty"`
	Models *string `json:"models,omitempty"`
	ImgURL *string `json:"img_url,omitempty"`

	// Count is the view count of the item.
	Count *int `json:"count,omitempty"`

	// Tags are canonical tag labels in page order.
	Tags []string `json:"tags,omitempty"`

	// UpdateDate is the time of the last successful extraction.
	UpdateDate *time.Time `json:"update_date,omitempty"`
}

// New returns a record that only carries the URL. Such records register
// a URL in a collection without touching any other stored field.
func New(url string) Record {
	return Record{URL: url}
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// ID returns the row id of a record, a UUID v5 of its URL. The same URL
// has the same id in every collection.
func ID(url string) uuid.UUID {
	return gnuuid.New(url)
}
