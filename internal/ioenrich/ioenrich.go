// Package ioenrich looks up performer and title of an item on the
// secondary search site.
package ioenrich

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/avharvest/avharvest/pkg/harvest"
)

// Selectors of the first search result.
const (
	ModelSelector = "span.video_actor"
	TitleSelector = "span.video_title"
)

type enricher struct {
	baseURL string
	fetcher harvest.Fetcher
}

// New creates an Enricher that appends the escaped search code to
// baseURL and downloads results with fetcher.
func New(baseURL string, fetcher harvest.Fetcher) harvest.Enricher {
	return &enricher{baseURL: baseURL, fetcher: fetcher}
}

// Lookup returns model and title of the first search result. Any
// problem gives an empty Enrichment.
func (e *enricher) Lookup(ctx context.Context, searchCode string) harvest.Enrichment {
	var res harvest.Enrichment
	if searchCode == "" || e.baseURL == "" {
		return res
	}

	u := e.baseURL + url.QueryEscape(searchCode)
	text, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		slog.Warn("Enrichment lookup failed", "code", searchCode, "error", err)
		return res
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		slog.Warn("Cannot parse enrichment page", "code", searchCode, "error", err)
		return res
	}

	res.Model = firstText(doc, ModelSelector)
	res.Title = firstText(doc, TitleSelector)
	slog.Debug("Enrichment found", "code", searchCode,
		"model", res.Model != nil, "title", res.Title != nil)
	return res
}

func firstText(doc *goquery.Document, selector string) *string {
	s := strings.TrimSpace(doc.Find(selector).First().Text())
	if s == "" {
		return nil
	}
	return &s
}
