// Package iolinks walks the paginated listing and discovers item URLs.
package iolinks

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/avharvest/avharvest/pkg/config"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/page"
)

var itemRe = regexp.MustCompile(page.CodePattern)

type linkSource struct {
	listingURL string
	firstPage  int
	maxPages   int
	fetcher    harvest.Fetcher
}

// New creates a LinkSource for the listing described by cfg.
func New(cfg config.HarvestConfig, fetcher harvest.Fetcher) harvest.LinkSource {
	return &linkSource{
		listingURL: cfg.ListingURL,
		firstPage:  cfg.FirstPage,
		maxPages:   cfg.MaxPages,
		fetcher:    fetcher,
	}
}

// Batches yields item URLs of one listing page at a time. Iteration
// stops after a page that cannot be fetched, has no item links, or
// repeats the previous page, and after MaxPages pages when it is set.
func (s *linkSource) Batches(ctx context.Context) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		var prev []string
		for i := 0; s.maxPages == 0 || i < s.maxPages; i++ {
			num := s.firstPage + i
			pageURL := PageURL(s.listingURL, num)

			text, err := s.fetcher.Fetch(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					yield(nil, LinksError(pageURL, ctx.Err()))
					return
				}
				slog.Info("Listing ended", "page", num, "reason", err)
				return
			}

			links, err := Links(pageURL, text)
			if err != nil {
				yield(nil, LinksError(pageURL, err))
				return
			}
			if len(links) == 0 {
				slog.Info("Listing ended", "page", num, "reason", "no links")
				return
			}
			if slices.Equal(links, prev) {
				slog.Info("Listing ended", "page", num, "reason", "repeated page")
				return
			}

			slog.Debug("Listing page parsed", "page", num, "links", len(links))
			if !yield(links, nil) {
				return
			}
			prev = links
		}
	}
}

// PageURL returns the address of a listing page.
func PageURL(listingURL string, num int) string {
	return strings.ReplaceAll(listingURL, config.PagePlaceholder, strconv.Itoa(num))
}

// Links returns absolute URLs of item pages linked from a listing page,
// in page order and without duplicates.
func Links(pageURL, text string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	var res []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !itemRe.MatchString(href) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		ref.Fragment = ""
		link := base.ResolveReference(ref).String()
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		res = append(res, link)
	})
	return res, nil
}
