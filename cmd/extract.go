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
	"fmt"
	"log/slog"

	"github.com/avharvest/avharvest/internal/ioharvest"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getExtractCmd returns the extract command.
func getExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract URL",
		Short: "Print the record of one page",
		Long: `Fetch one video page and print its record as JSON.
Nothing is written to the store.

Examples:
  avharvest extract https://www.example.com/watch-abp-123`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	url := args[0]
	h, err := newHarvester(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer h.store.Close()

	text, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Warn("Cannot fetch page", "url", url, "error", err)
	}

	rec, err := h.extractor.Extract(ctx, url, text)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if rec == nil {
		err = ioharvest.ExtractFailedError(url)
		gn.PrintErrorMessage(err)
		return err
	}

	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(rec)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
