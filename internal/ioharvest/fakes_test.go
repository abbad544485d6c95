package ioharvest_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"time"

	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
)

const itemPage = `<html>
<head><title>ABP-123 Summer Story</title></head>
<body>
<img itemprop="image" src="https://cdn.example.com/abp-123.jpg" title="ABP-123">
<div class="film_view_count">1523</div>
<ul>
<li>Models: <a href="/models/jane-doe">Jane Doe</a></li>
<li>Genre: <a href="/genre/anal">Anal</a> <a href="/genre/x">UnknownTag</a></li>
</ul>
</body>
</html>`

const noCountPage = `<html><head><title>Gone</title></head><body></body></html>`

var errNotFound = errors.New("not found")

// memCollection keeps records in registration order.
type memCollection struct {
	order []string
	recs  map[string]record.Record
}

// memStore is an in-memory harvest.Store with the same partial update
// semantics as the database stores.
type memStore struct {
	cols      map[record.Collection]*memCollection
	existsErr error
}

func newMemStore() *memStore {
	res := &memStore{cols: make(map[record.Collection]*memCollection)}
	for _, c := range record.Collections() {
		res.cols[c] = &memCollection{recs: make(map[string]record.Record)}
	}
	return res
}

func (s *memStore) Exists(_ context.Context, url string, c record.Collection) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.cols[c].recs[url]
	return ok, nil
}

func (s *memStore) UpdateDate(_ context.Context, url string, c record.Collection) (*time.Time, error) {
	return s.cols[c].recs[url].UpdateDate, nil
}

func (s *memStore) Backlog(_ context.Context, c record.Collection) ([]record.Record, error) {
	col := s.cols[c]
	var res []record.Record
	for _, url := range col.order {
		if r := col.recs[url]; r.UpdateDate == nil {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *memStore) UpsertMany(_ context.Context, recs []record.Record, c record.Collection) error {
	col := s.cols[c]
	for _, r := range recs {
		old, ok := col.recs[r.URL]
		if !ok {
			col.order = append(col.order, r.URL)
			col.recs[r.URL] = r
			continue
		}
		col.recs[r.URL] = merge(old, r)
	}
	return nil
}

func merge(old, r record.Record) record.Record {
	if r.Code != nil {
		old.Code = r.Code
	}
	if r.SearchCode != nil {
		old.SearchCode = r.SearchCode
	}
	if r.Title != nil {
		old.Title = r.Title
	}
	if r.Models != nil {
		old.Models = r.Models
	}
	if r.ImgURL != nil {
		old.ImgURL = r.ImgURL
	}
	if r.Count != nil {
		old.Count = r.Count
	}
	if r.Tags != nil {
		old.Tags = r.Tags
	}
	if r.UpdateDate != nil {
		old.UpdateDate = r.UpdateDate
	}
	return old
}

func (s *memStore) Delete(_ context.Context, url string, c record.Collection) error {
	col := s.cols[c]
	delete(col.recs, url)
	col.order = slices.DeleteFunc(col.order, func(u string) bool { return u == url })
	return nil
}

func (s *memStore) URLKeys(_ context.Context, c record.Collection) ([]string, error) {
	return slices.Clone(s.cols[c].order), nil
}

func (s *memStore) RecordsByURLs(_ context.Context, urls []string, c record.Collection) ([]record.Record, error) {
	col := s.cols[c]
	var res []record.Record
	for _, url := range urls {
		if r, ok := col.recs[url]; ok {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *memStore) ReplaceAll(_ context.Context, recs []record.Record, c record.Collection) error {
	s.cols[c] = &memCollection{recs: make(map[string]record.Record)}
	return s.UpsertMany(context.Background(), recs, c)
}

func (s *memStore) Close() error { return nil }

func (s *memStore) get(url string, c record.Collection) (record.Record, bool) {
	r, ok := s.cols[c].recs[url]
	return r, ok
}

// memFetcher serves pages from a map and records requested URLs.
type memFetcher struct {
	pages map[string]string
	calls []string
}

func (f *memFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	text, ok := f.pages[url]
	if !ok {
		return "", errNotFound
	}
	return text, nil
}

// memLinks yields preset batches and then an optional error.
type memLinks struct {
	batches [][]string
	err     error
}

func (l *memLinks) Batches(_ context.Context) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for _, b := range l.batches {
			if !yield(b, nil) {
				return
			}
		}
		if l.err != nil {
			yield(nil, l.err)
		}
	}
}

type memEnricher struct {
	res   harvest.Enrichment
	codes []string
}

func (e *memEnricher) Lookup(_ context.Context, code string) harvest.Enrichment {
	e.codes = append(e.codes, code)
	return e.res
}
