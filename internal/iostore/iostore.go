// Package iostore keeps record collections in PostgreSQL or in a local
// SQLite file. Both backends share column layout and upsert semantics:
// a nil field of an incoming record never overwrites a stored value.
package iostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avharvest/avharvest/pkg/config"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/avharvest/avharvest/pkg/schema"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
)

// New opens the store selected by the database driver setting.
func New(ctx context.Context, cfg *config.Config) (harvest.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return NewPostgres(ctx, &cfg.Database)
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath(), cfg.Database.BatchSize)
	default:
		return nil, UnknownDriverError(cfg.Database.Driver)
	}
}

// minBatch is used when batch size is not configured.
const minBatch = 100

// maxInList limits the number of URLs in one IN (...) query.
const maxInList = 500

func batchSize(n int) int {
	if n <= 0 {
		return minBatch
	}
	return n
}

// row holds stored values of one record before conversion.
type row struct {
	url        string
	code       *string
	searchCode *string
	title      *string
	models     *string
	imgURL     *string
	count      *int
	tags       []byte
}

// dest returns scan destinations in schema.Columns order. The date
// destination depends on the backend.
func (r *row) dest(date any) []any {
	return []any{
		&r.url, &r.code, &r.searchCode, &r.title, &r.models, &r.imgURL,
		&r.count, &r.tags, date,
	}
}

func (r *row) record() (record.Record, error) {
	tags, err := decodeTags(r.tags)
	if err != nil {
		return record.Record{}, err
	}
	return record.Record{
		URL:        r.url,
		Code:       r.code,
		SearchCode: r.searchCode,
		Title:      r.title,
		Models:     r.models,
		ImgURL:     r.imgURL,
		Count:      r.count,
		Tags:       tags,
	}, nil
}

// args returns values of the id column followed by schema.Columns.
// Backends convert id, tags and date to their column types.
func args(
	r record.Record,
	id func(uuid.UUID) any,
	tags func([]byte) any,
	date func(*time.Time) any,
) ([]any, error) {
	tagsJSON, err := encodeTags(r.Tags)
	if err != nil {
		return nil, err
	}
	return []any{
		id(record.ID(r.URL)), r.URL, r.Code, r.SearchCode, r.Title,
		r.Models, r.ImgURL, r.Count, tags(tagsJSON), date(r.UpdateDate),
	}, nil
}

// encodeTags returns nil for nil tags, so that an upsert keeps the
// stored list.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		return nil, nil
	}
	enc := gnfmt.GNjson{}
	return enc.Encode(tags)
}

func decodeTags(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var res []string
	enc := gnfmt.GNjson{}
	if err := enc.Decode(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// selectSQL returns a query of all record columns.
func selectSQL(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(schema.Columns(), ", "), table)
}

// upsertSQL returns an insert that updates the row with the same URL.
// Only non-null values replace stored ones. ph formats the placeholder
// of the i-th argument.
func upsertSQL(table string, ph func(i int) string) string {
	cols := append([]string{"id"}, schema.Columns()...)
	vals := make([]string, len(cols))
	for i := range cols {
		vals[i] = ph(i + 1)
	}

	var sets []string
	for _, col := range schema.Columns() {
		if col == "url" {
			continue
		}
		sets = append(sets,
			fmt.Sprintf("%s = COALESCE(excluded.%s, %s.%s)", col, col, table, col))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (url) DO UPDATE SET %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(vals, ", "),
		strings.Join(sets, ", "),
	)
}

// dedupe keeps the last record of every URL, in the order of first
// appearance.
func dedupe(recs []record.Record) []record.Record {
	idx := make(map[string]int, len(recs))
	res := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if i, ok := idx[r.URL]; ok {
			res[i] = r
			continue
		}
		idx[r.URL] = len(res)
		res = append(res, r)
	}
	return res
}
