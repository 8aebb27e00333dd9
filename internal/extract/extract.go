// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract asks a Generative AI backend for the most important
// verbatim quotes of each document page, producing highlight requests
// for the annotation stage.
package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// PageText is the plain text of a single document page.
type PageText struct {
	// Page is the 1-based page number.
	Page int

	// Text is the page text with embedded line breaks.
	Text string
}

// AIBackend abstracts the Generative AI API so tests can supply a
// mock. An implementation reads one page of text and returns candidate
// highlights for it.
type AIBackend interface {
	ExtractPage(ctx context.Context, page int, text string) ([]types.Highlight, error)
}

// Summary holds counts from a batch extraction run.
type Summary struct {
	Highlights int
	Pages      int
	Skipped    int
	Failed     int
}

// backoffBase controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var backoffBase = time.Second

// ExtractAll asks the backend for highlights page by page. Blank pages
// are skipped, and a page whose extraction keeps failing after retries
// is counted and skipped rather than aborting the batch. Every
// returned highlight is forced onto its source page number, records
// with empty quotes are dropped, and per-page results are capped at
// cfg.MaxPerPage (default 7). When cfg.MaxTotal is positive the
// combined list is truncated to the first MaxTotal records.
//
// Per-page status lines are written to w.
func ExtractAll(ctx context.Context, backend AIBackend, pages []PageText, cfg types.ExtractionConfig, w io.Writer) ([]types.Highlight, Summary, error) {
	maxPerPage := cfg.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = 7
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var all []types.Highlight
	var summary Summary

	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			fmt.Fprintf(w, "  page %d: empty, skipped\n", p.Page)
			summary.Skipped++
			continue
		}

		hs, err := extractWithRetry(ctx, backend, p, maxRetries)
		if err != nil {
			if ctx.Err() != nil {
				return all, summary, ctx.Err()
			}
			fmt.Fprintf(w, "  page %d: extraction failed: %v\n", p.Page, err)
			summary.Failed++
			continue
		}

		hs = sanitize(hs, p.Page)
		if len(hs) > maxPerPage {
			hs = hs[:maxPerPage]
		}

		fmt.Fprintf(w, "  page %d: %d highlight(s)\n", p.Page, len(hs))
		all = append(all, hs...)
		summary.Pages++
	}

	if cfg.MaxTotal > 0 && len(all) > cfg.MaxTotal {
		fmt.Fprintf(w, "  keeping first %d of %d highlights\n", cfg.MaxTotal, len(all))
		all = all[:cfg.MaxTotal]
	}

	summary.Highlights = len(all)
	return all, summary, nil
}

// extractWithRetry calls the backend with exponential backoff.
func extractWithRetry(ctx context.Context, backend AIBackend, p PageText, maxRetries int) ([]types.Highlight, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		hs, err := backend.ExtractPage(ctx, p.Page, p.Text)
		if err == nil {
			return hs, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// sanitize forces the source page number onto each record and drops
// records without a quote. The model occasionally reports the wrong
// page or echoes an empty string; neither may reach the applicator.
func sanitize(hs []types.Highlight, page int) []types.Highlight {
	out := hs[:0]
	for _, h := range hs {
		if strings.TrimSpace(h.Quote) == "" {
			continue
		}
		h.Page = page
		out = append(out, h)
	}
	return out
}
