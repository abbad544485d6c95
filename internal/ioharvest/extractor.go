// Package ioharvest runs the crawl-and-update cycle: it drains the
// backlog of registered URLs, ingests newly discovered links and rebuilds
// the snapshot of new records.
package ioharvest

import (
	"context"
	"log/slog"
	"time"

	"github.com/avharvest/avharvest/pkg/codes"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/page"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/avharvest/avharvest/pkg/tagmap"
)

type extractor struct {
	store    harvest.Store
	enricher harvest.Enricher
	mapper   *tagmap.Mapper
	now      func() time.Time
}

// NewExtractor creates an Extractor. A nil now uses time.Now, a nil
// enricher disables enrichment.
func NewExtractor(
	store harvest.Store,
	enricher harvest.Enricher,
	mapper *tagmap.Mapper,
	now func() time.Time,
) harvest.Extractor {
	if now == nil {
		now = time.Now
	}
	if mapper == nil {
		mapper = tagmap.New(nil)
	}
	return &extractor{
		store:    store,
		enricher: enricher,
		mapper:   mapper,
		now:      now,
	}
}

// Extract builds a record from the page. URLs already present in the
// canonical collection get a refresh-only record with count, tags and
// update date.
func (e *extractor) Extract(
	ctx context.Context,
	url, pageText string,
) (*record.Record, error) {
	f, ok := page.Parse(url, pageText)
	if !ok {
		slog.Debug("Cannot extract record", "url", url)
		return nil, nil
	}

	now := e.now()
	tags := e.mapper.Map(f.Tags)

	known, err := e.store.Exists(ctx, url, record.Canonical)
	if err != nil {
		return nil, err
	}
	if known {
		return &record.Record{
			URL:        url,
			Count:      record.Ptr(f.Count),
			Tags:       tags,
			UpdateDate: &now,
		}, nil
	}

	res := &record.Record{
		URL:        url,
		Code:       record.Ptr(f.Code),
		Title:      f.Title,
		Models:     f.Models,
		ImgURL:     f.ImgURL,
		Count:      record.Ptr(f.Count),
		Tags:       tags,
		UpdateDate: &now,
	}

	searchCode, ok := codes.Normalize(f.Code)
	if !ok {
		return res, nil
	}
	res.SearchCode = &searchCode

	if e.enricher == nil {
		return res, nil
	}
	en := e.enricher.Lookup(ctx, searchCode)
	if en.Model != nil {
		res.Models = en.Model
	}
	if en.Title != nil {
		res.Title = en.Title
	}
	return res, nil
}
