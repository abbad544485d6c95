package iolinks_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/avharvest/avharvest/internal/iolinks"
	"github.com/avharvest/avharvest/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	pages map[string]string
	calls int
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.calls++
	if res, ok := s.pages[url]; ok {
		return res, nil
	}
	return "", errors.New("not found")
}

const listing = "https://example.com/videos?page={page}"

func listingPage(codes ...string) string {
	res := `<html><body><a href="/about">About</a>`
	for _, c := range codes {
		res += fmt.Sprintf(`<a href="/watch-%s.html">%s</a>`, c, c)
		res += fmt.Sprintf(`<a href="/watch-%s.html#cover"><img></a>`, c)
	}
	return res + `</body></html>`
}

func harvestConfig(maxPages int) config.HarvestConfig {
	cfg := config.New().Harvest
	cfg.ListingURL = listing
	cfg.FirstPage = 1
	cfg.MaxPages = maxPages
	return cfg
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://example.com/videos?page=3",
		iolinks.PageURL(listing, 3))
}

func TestLinks(t *testing.T) {
	links, err := iolinks.Links(
		"https://example.com/videos?page=1",
		listingPage("abp-123", "ssni-351", "abp-123"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/watch-abp-123.html",
		"https://example.com/watch-ssni-351.html",
	}, links)

	links, err = iolinks.Links("https://example.com/videos?page=1", "<html></html>")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestBatches(t *testing.T) {
	tests := []struct {
		msg      string
		pages    map[string]string
		maxPages int
		batches  int
	}{
		{"stops on missing page", map[string]string{
			"https://example.com/videos?page=1": listingPage("abp-1"),
			"https://example.com/videos?page=2": listingPage("abp-2"),
		}, 0, 2},
		{"stops on empty page", map[string]string{
			"https://example.com/videos?page=1": listingPage("abp-1"),
			"https://example.com/videos?page=2": listingPage(),
			"https://example.com/videos?page=3": listingPage("abp-3"),
		}, 0, 1},
		{"stops on repeated page", map[string]string{
			"https://example.com/videos?page=1": listingPage("abp-1"),
			"https://example.com/videos?page=2": listingPage("abp-1"),
		}, 0, 1},
		{"stops at max pages", map[string]string{
			"https://example.com/videos?page=1": listingPage("abp-1"),
			"https://example.com/videos?page=2": listingPage("abp-2"),
			"https://example.com/videos?page=3": listingPage("abp-3"),
		}, 2, 2},
	}

	for _, v := range tests {
		src := iolinks.New(harvestConfig(v.maxPages), &stubFetcher{pages: v.pages})
		var batches [][]string
		for links, err := range src.Batches(context.Background()) {
			require.NoError(t, err, v.msg)
			batches = append(batches, links)
		}
		assert.Len(t, batches, v.batches, v.msg)
	}
}

func TestBatchesOrder(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/videos?page=1": listingPage("abp-1", "abp-2"),
		"https://example.com/videos?page=2": listingPage("abp-3"),
	}}
	src := iolinks.New(harvestConfig(0), f)

	var links []string
	for batch, err := range src.Batches(context.Background()) {
		require.NoError(t, err)
		links = append(links, batch...)
	}
	assert.Equal(t, []string{
		"https://example.com/watch-abp-1.html",
		"https://example.com/watch-abp-2.html",
		"https://example.com/watch-abp-3.html",
	}, links)
}

func TestBatchesEarlyBreak(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/videos?page=1": listingPage("abp-1"),
		"https://example.com/videos?page=2": listingPage("abp-2"),
	}}
	src := iolinks.New(harvestConfig(0), f)

	for range src.Batches(context.Background()) {
		break
	}
	assert.Equal(t, 1, f.calls)
}

func TestBatchesCancelled(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/videos?page=1": listingPage("abp-1"),
	}}
	src := iolinks.New(harvestConfig(0), f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var errs int
	for _, err := range src.Batches(ctx) {
		assert.Error(t, err)
		errs++
	}
	assert.Equal(t, 1, errs)
}
