// Package iofetch downloads pages over HTTP. It is the only place where
// the harvester talks to remote sites, so request rate and timeout are
// controlled here.
package iofetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avharvest/avharvest/pkg/config"
	"github.com/avharvest/avharvest/pkg/harvest"
	"golang.org/x/time/rate"
)

// MaxPageSize limits the number of bytes read from one response.
const MaxPageSize = 16 << 20

type fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates a Fetcher from harvest settings. Zero requests per second
// disables rate limiting.
func New(cfg config.HarvestConfig) harvest.Fetcher {
	res := fetcher{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		userAgent: cfg.UserAgent,
	}
	if cfg.RequestsPerSecond > 0 {
		res.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &res
}

// Fetch returns the body of a page. A response with status other than
// 200 or with an empty body is an error.
func (f *fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", FetchError(url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", FetchError(url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", FetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return "", FetchError(url, err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		return "", FetchError(url, err)
	}
	if len(body) == 0 {
		return "", FetchError(url, errors.New("empty body"))
	}

	slog.Debug("Page fetched", "url", url, "bytes", len(body))
	return string(body), nil
}
