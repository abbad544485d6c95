package ioharvest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avharvest/avharvest/pkg/freshness"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/cheggaaa/pb/v3"
)

type updater struct {
	store     harvest.Store
	fetcher   harvest.Fetcher
	links     harvest.LinkSource
	extractor harvest.Extractor
	gate      freshness.Gate
	now       func() time.Time
	progress  bool
}

// Option changes settings of the Updater.
type Option func(*updater)

// OptClock sets the clock used by the staleness gate.
func OptClock(now func() time.Time) Option {
	return func(u *updater) {
		if now != nil {
			u.now = now
		}
	}
}

// OptStaleDays sets the staleness window.
func OptStaleDays(days int) Option {
	return func(u *updater) {
		u.gate = freshness.New(days)
	}
}

// OptProgress shows a progress bar while the backlog is drained.
func OptProgress(b bool) Option {
	return func(u *updater) {
		u.progress = b
	}
}

// NewUpdater creates an Updater.
func NewUpdater(
	store harvest.Store,
	fetcher harvest.Fetcher,
	links harvest.LinkSource,
	extractor harvest.Extractor,
	opts ...Option,
) harvest.Updater {
	res := &updater{
		store:     store,
		fetcher:   fetcher,
		links:     links,
		extractor: extractor,
		gate:      freshness.New(freshness.DefaultWindowDays),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Update runs the backlog, link ingestion and diff steps once each.
func (u *updater) Update(ctx context.Context) (*harvest.Stats, error) {
	start := time.Now()
	stats := &harvest.Stats{}

	slog.Info("Step 1/3: Draining backlog")
	if err := u.drainBacklog(ctx, stats); err != nil {
		return stats, err
	}

	slog.Info("Step 2/3: Ingesting new links")
	if err := u.ingestNewLinks(ctx, stats); err != nil {
		return stats, err
	}

	slog.Info("Step 3/3: Computing new records")
	n, err := u.Diff(ctx)
	if err != nil {
		return stats, err
	}
	stats.New = n
	stats.Duration = time.Since(start)

	slog.Info("Update completed",
		"backlog", stats.Backlog,
		"links", stats.Links,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"upserted", stats.Upserted,
		"deleted", stats.Deleted,
		"new", stats.New,
	)
	return stats, nil
}

func (u *updater) drainBacklog(ctx context.Context, stats *harvest.Stats) error {
	recs, err := u.store.Backlog(ctx, record.Updating)
	if err != nil {
		return err
	}
	stats.Backlog = len(recs)
	if len(recs) == 0 {
		return nil
	}

	urls := make([]string, len(recs))
	for i := range recs {
		urls[i] = recs[i].URL
	}

	var bar *pb.ProgressBar
	if u.progress {
		bar = newProgressBar(len(urls), "Backlog: ")
		defer bar.Finish()
	}
	return u.process(ctx, urls, stats, bar)
}

func (u *updater) ingestNewLinks(ctx context.Context, stats *harvest.Stats) error {
	for batch, err := range u.links.Batches(ctx) {
		if err != nil {
			return err
		}
		urls := cleanURLs(batch)
		stats.Links += len(urls)
		if len(urls) == 0 {
			continue
		}

		recs := make([]record.Record, len(urls))
		for i, url := range urls {
			recs[i] = record.New(url)
		}
		if err = u.store.UpsertMany(ctx, recs, record.Updating); err != nil {
			return err
		}
		slog.Debug("Registered links", "count", len(urls))

		if err = u.process(ctx, urls, stats, nil); err != nil {
			return err
		}
	}
	return nil
}

// process gates, fetches and extracts every URL in order. A successful
// extraction is upserted, a failed one removes the URL from the update
// collection.
func (u *updater) process(
	ctx context.Context,
	urls []string,
	stats *harvest.Stats,
	bar *pb.ProgressBar,
) error {
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return CancelledError(err)
		}
		if bar != nil {
			bar.Increment()
		}

		last, err := u.store.UpdateDate(ctx, url, record.Updating)
		if err != nil {
			return err
		}
		if u.gate.ShouldSkip(last, u.now()) {
			stats.Skipped++
			continue
		}

		text, err := u.fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return CancelledError(ctx.Err())
			}
			slog.Warn("Cannot fetch page", "url", url, "error", err)
			text = ""
		}

		rec, err := u.extractor.Extract(ctx, url, text)
		if err != nil {
			if ctx.Err() != nil {
				return CancelledError(ctx.Err())
			}
			return err
		}
		stats.Processed++

		if rec == nil {
			if err = u.store.Delete(ctx, url, record.Updating); err != nil {
				return err
			}
			stats.Deleted++
			slog.Info("Forgot URL", "url", url)
			continue
		}

		if err = u.store.UpsertMany(ctx, []record.Record{*rec}, record.Updating); err != nil {
			return err
		}
		stats.Upserted++
	}
	return nil
}

// Diff writes records of the update collection that are absent from the
// canonical collection to the new-record collection, replacing its
// previous content.
func (u *updater) Diff(ctx context.Context) (int, error) {
	updating, err := u.store.URLKeys(ctx, record.Updating)
	if err != nil {
		return 0, err
	}
	canonical, err := u.store.URLKeys(ctx, record.Canonical)
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(canonical))
	for _, url := range canonical {
		known[url] = struct{}{}
	}

	var newURLs []string
	for _, url := range updating {
		if _, ok := known[url]; !ok {
			newURLs = append(newURLs, url)
		}
	}

	recs, err := u.store.RecordsByURLs(ctx, newURLs, record.Updating)
	if err != nil {
		return 0, err
	}
	if err = u.store.ReplaceAll(ctx, recs, record.Fresh); err != nil {
		return 0, err
	}
	slog.Info("New records collected", "count", len(recs))
	return len(recs), nil
}

// cleanURLs removes all whitespace from URLs and drops empty ones.
func cleanURLs(urls []string) []string {
	res := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.Join(strings.Fields(url), "")
		if url != "" {
			res = append(res, url)
		}
	}
	return res
}
