// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate applies a batch of highlight requests to a
// document. Each request is resolved to page regions independently;
// requests that cannot be resolved are reported, never fatal. Only
// collaborator failures (a page that cannot be loaded, an annotation
// that cannot be written) abort the batch.
package annotate

import (
	"fmt"
	"io"

	"github.com/franmgl2001/case-highlighter/internal/resolve"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Annotation is a highlight annotation attached to a page region.
type Annotation interface {
	// SetComment attaches a text note to the annotation.
	SetComment(s string) error
}

// Page is one document page: a searchable text layout that also
// accepts highlight annotations.
type Page interface {
	resolve.Page

	// AddHighlight creates a highlight annotation covering r.
	AddHighlight(r types.Rect) (Annotation, error)
}

// Document is an open document being mutated in place. It is owned
// exclusively by the calling run.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Page returns the 1-based i-th page.
	Page(i int) (Page, error)
}

// Apply processes highlights in input order against doc. For every
// region the resolver returns, a highlight annotation is created with
// the request's label as its comment (no comment when the label is
// empty). Out-of-range pages, empty quotes, and unmatched quotes are
// recorded in the report and the batch continues; the returned error
// is non-nil only for document-level failures, which abort the run.
//
// Per-request status lines are written to w.
func Apply(doc Document, highlights []types.Highlight, r *resolve.Resolver, w io.Writer) (types.Report, error) {
	report := types.Report{Total: len(highlights)}

	for i, h := range highlights {
		if h.Page < 1 || h.Page > doc.PageCount() {
			fmt.Fprintf(w, "page %d out of range (1-%d), skipping quote: %s\n", h.Page, doc.PageCount(), snippet(h.Quote))
			report.Unresolved = append(report.Unresolved, unresolved(i, h, types.ReasonOutOfRange))
			continue
		}

		if h.Quote == "" {
			fmt.Fprintf(w, "page %d: empty quote, skipping\n", h.Page)
			report.Unresolved = append(report.Unresolved, unresolved(i, h, types.ReasonNotFound))
			continue
		}

		page, err := doc.Page(h.Page)
		if err != nil {
			return report, fmt.Errorf("loading page %d: %w", h.Page, err)
		}

		rects := r.Resolve(page, h.Quote)
		if len(rects) == 0 {
			fmt.Fprintf(w, "page %d: quote not found: %s\n", h.Page, snippet(h.Quote))
			report.Unresolved = append(report.Unresolved, unresolved(i, h, types.ReasonNotFound))
			continue
		}

		for _, rect := range rects {
			annot, err := page.AddHighlight(rect)
			if err != nil {
				return report, fmt.Errorf("adding highlight on page %d: %w", h.Page, err)
			}
			if h.Label != "" {
				if err := annot.SetComment(h.Label); err != nil {
					return report, fmt.Errorf("setting comment on page %d: %w", h.Page, err)
				}
			}
		}

		fmt.Fprintf(w, "page %d: %d region(s) for: %s\n", h.Page, len(rects), snippet(h.Quote))
		report.Resolved++
	}

	return report, nil
}

func unresolved(index int, h types.Highlight, reason types.UnresolvedReason) types.Unresolved {
	return types.Unresolved{
		Index:  index,
		Page:   h.Page,
		Quote:  h.Quote,
		Reason: reason,
	}
}

// snippet shortens a quote for status output.
func snippet(s string) string {
	const max = 50
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
