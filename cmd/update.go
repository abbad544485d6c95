/*
Copyright © 2025 The avharvest authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/avharvest/avharvest/internal/ioenrich"
	"github.com/avharvest/avharvest/internal/iofetch"
	"github.com/avharvest/avharvest/internal/ioharvest"
	"github.com/avharvest/avharvest/internal/iolinks"
	"github.com/avharvest/avharvest/internal/iostore"
	"github.com/avharvest/avharvest/internal/iotags"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getUpdateCmd returns the update command.
func getUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Run the full update cycle",
		Long: `Run the update cycle once:
  1. Drain the backlog: extract records of registered pages
  2. Ingest new links from the listing pages
  3. Save records absent from the canonical collection to videos_new

Pages updated during the last harvest.stale_days days are not fetched
again. Ctrl-C stops the cycle, processed records stay saved.

Examples:
  avharvest update`,
		RunE: runUpdate,
	}
}

// harvester wires the store and collaborators of one command run.
type harvester struct {
	store     harvest.Store
	fetcher   harvest.Fetcher
	extractor harvest.Extractor
	updater   harvest.Updater
}

func newHarvester(ctx context.Context) (*harvester, error) {
	mapper, err := iotags.NewMapper(cfg.TagsPath())
	if err != nil {
		return nil, err
	}

	store, err := iostore.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := iofetch.New(cfg.Harvest)
	enricher := ioenrich.New(cfg.Harvest.EnrichURL, fetcher)
	links := iolinks.New(cfg.Harvest, fetcher)
	ext := ioharvest.NewExtractor(store, enricher, mapper, nil)
	upd := ioharvest.NewUpdater(store, fetcher, links, ext,
		ioharvest.OptStaleDays(cfg.Harvest.StaleDays),
		ioharvest.OptProgress(true),
	)

	return &harvester{
		store:     store,
		fetcher:   fetcher,
		extractor: ext,
		updater:   upd,
	}, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	h, err := newHarvester(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer h.store.Close()

	gn.Info("Updating records, <em>it might take a while</em>...")
	stats, err := h.updater.Update(ctx)
	if stats != nil {
		printStats(stats)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}

func printStats(s *harvest.Stats) {
	gn.Info("Backlog: <em>%s</em>, links: <em>%s</em>",
		humanize.Comma(int64(s.Backlog)), humanize.Comma(int64(s.Links)))
	gn.Info("Extracted: <em>%s</em>, skipped: <em>%s</em>, forgotten: <em>%s</em>",
		humanize.Comma(int64(s.Upserted)),
		humanize.Comma(int64(s.Skipped)),
		humanize.Comma(int64(s.Deleted)),
	)
	gn.Info("New records: <em>%s</em>", humanize.Comma(int64(s.New)))
	if s.Duration > 0 {
		gn.Info("Finished in <em>%s</em>", gnfmt.TimeString(s.Duration.Seconds()))
	}
}
