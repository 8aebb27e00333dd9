// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve locates a verbatim quote on a page's text layout and
// returns its bounding regions. Resolution degrades through a fixed
// cascade of strategies so that hyphenation, line wrapping, and
// transcription drift between the quote and the rendered text do not
// defeat matching: exact search, normalized search, windowed-chunk
// search, and finally a fuzzy best-line fallback.
package resolve

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/franmgl2001/case-highlighter/internal/textnorm"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Page is the searchable text layout of one document page. It is
// read-only for the duration of a run; the engine never mutates it.
type Page interface {
	// Text returns the raw extracted page text, with embedded line
	// breaks.
	Text() string

	// Search maps an exact substring to zero or more bounding regions
	// in page coordinate space, in layout order.
	Search(s string) []types.Rect
}

// partialRatio scores the best-aligned substring similarity of two
// strings on a 0-100 scale. Tests override this to script exact
// boundary scores.
var partialRatio = fuzzy.PartialRatio

// A Resolver maps quotes to page regions. The zero value is not
// usable; construct with New.
type Resolver struct {
	cfg types.ResolverConfig
}

// New returns a Resolver with zero config fields replaced by the
// defaults (min 6 words to window, window size 10, step divisor 2,
// step floor 3, fuzzy threshold 85).
func New(cfg types.ResolverConfig) *Resolver {
	if cfg.MinWindowWords <= 0 {
		cfg.MinWindowWords = 6
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 10
	}
	if cfg.WindowStepDivisor <= 0 {
		cfg.WindowStepDivisor = 2
	}
	if cfg.WindowStepFloor <= 0 {
		cfg.WindowStepFloor = 3
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 85
	}
	return &Resolver{cfg: cfg}
}

// Resolve returns the bounding regions for quote on page, or nil if
// no strategy matched. A nil result is the normal not-found signal,
// not an error. Strategies run in fixed order, cheapest and most
// precise first, with early exit on the first non-empty result.
func (r *Resolver) Resolve(page Page, quote string) []types.Rect {
	strategies := []func(Page, string) []types.Rect{
		r.searchRaw,
		r.searchNormalized,
		r.searchWindows,
		r.searchFuzzyLine,
	}
	for _, strategy := range strategies {
		if rects := strategy(page, quote); len(rects) > 0 {
			return rects
		}
	}
	return nil
}

// searchRaw queries the page with the quote exactly as given. The
// search primitive may already tolerate what normalization would fix,
// and the raw form preserves maximal precision when it matches.
func (r *Resolver) searchRaw(page Page, quote string) []types.Rect {
	return page.Search(quote)
}

// searchNormalized queries with the normalized quote, recovering
// matches defeated by hyphenation or whitespace drift.
func (r *Resolver) searchNormalized(page Page, quote string) []types.Rect {
	return page.Search(textnorm.Normalize(quote))
}

// searchWindows splits the normalized quote into overlapping word
// windows and accumulates every region any window matches. A quote
// spanning a paragraph break may legitimately yield several disjoint
// regions this way. Quotes shorter than MinWindowWords are not split;
// they fall through to the fuzzy stage instead.
func (r *Resolver) searchWindows(page Page, quote string) []types.Rect {
	words := strings.Fields(textnorm.Normalize(quote))
	var found []types.Rect
	for _, window := range r.windows(words) {
		found = append(found, page.Search(window)...)
	}
	return found
}

// windows returns the space-joined word windows for the chunk stage.
// Window size is min(WindowSize, len(words)); the step is the window
// size divided by WindowStepDivisor, but at least WindowStepFloor.
// Trailing partial windows are discarded.
func (r *Resolver) windows(words []string) []string {
	n := len(words)
	if n < r.cfg.MinWindowWords {
		return nil
	}

	size := r.cfg.WindowSize
	if n < size {
		size = n
	}
	step := size / r.cfg.WindowStepDivisor
	if step < r.cfg.WindowStepFloor {
		step = r.cfg.WindowStepFloor
	}

	var out []string
	for i := 0; i+size <= n; i += step {
		out = append(out, strings.Join(words[i:i+size], " "))
	}
	return out
}

// searchFuzzyLine scores every normalized page line against the
// normalized quote with the partial-ratio metric and, if the best
// score reaches the threshold, re-issues an exact search for the
// winning line. Ties keep the earliest line.
func (r *Resolver) searchFuzzyLine(page Page, quote string) []types.Rect {
	q := textnorm.Normalize(quote)
	if q == "" {
		return nil
	}

	best := ""
	bestScore := -1
	for _, line := range strings.Split(page.Text(), "\n") {
		l := textnorm.Normalize(line)
		if l == "" {
			continue
		}
		if score := partialRatio(q, l); score > bestScore {
			bestScore = score
			best = l
		}
	}

	if best == "" || bestScore < r.cfg.FuzzyThreshold {
		return nil
	}
	return page.Search(best)
}
