// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"math"
	"sort"
	"strings"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// glyphBox is one positioned glyph in device space. Coordinates follow
// the PDF convention, origin at the lower left of the page.
type glyphBox struct {
	text     string
	rect     types.Rect
	baseline float64
}

// word is a run of non-whitespace glyphs with its bounding box.
type word struct {
	text     string
	rect     types.Rect
	baseline float64
	line     int
}

// layout is the assembled text of one page: words grouped into lines
// in reading order.
type layout struct {
	words []word
	lines []string
}

// assemble groups a glyph stream into words and lines. Words break on
// whitespace glyphs and on baseline jumps; lines are ordered top to
// bottom, words within a line left to right.
func assemble(glyphs []glyphBox) *layout {
	var words []word
	var cur *word

	flush := func() {
		if cur != nil && cur.text != "" {
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.text) == "" {
			flush()
			continue
		}
		if cur != nil && math.Abs(g.baseline-cur.baseline) > lineTolerance(cur.rect) {
			flush()
		}
		if cur == nil {
			cur = &word{text: g.text, rect: g.rect, baseline: g.baseline}
			continue
		}
		cur.text += g.text
		cur.rect = union(cur.rect, g.rect)
	}
	flush()

	return &layout{words: groupLines(words)}
}

// lineTolerance is the baseline distance below which two glyphs are
// considered to sit on the same line.
func lineTolerance(r types.Rect) float64 {
	h := (r.Y1 - r.Y0) / 2
	if h < 1 {
		h = 1
	}
	return h
}

// groupLines clusters words by baseline, assigns line numbers, and
// returns the words sorted into reading order.
func groupLines(words []word) []word {
	if len(words) == 0 {
		return words
	}

	// Top of the page first. PDF y grows upward.
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].baseline > words[j].baseline
	})

	line := 0
	words[0].line = 0
	for i := 1; i < len(words); i++ {
		if words[i-1].baseline-words[i].baseline > lineTolerance(words[i].rect) {
			line++
		}
		words[i].line = line
	}

	sort.SliceStable(words, func(i, j int) bool {
		if words[i].line != words[j].line {
			return words[i].line < words[j].line
		}
		return words[i].rect.X0 < words[j].rect.X0
	})
	return words
}

// text renders the page as lines of space-separated words.
func (l *layout) text() string {
	if l.lines == nil {
		var sb strings.Builder
		prevLine := -1
		for i, w := range l.words {
			switch {
			case i == 0:
			case w.line != prevLine:
				sb.WriteByte('\n')
			default:
				sb.WriteByte(' ')
			}
			sb.WriteString(w.text)
			prevLine = w.line
		}
		l.lines = strings.Split(sb.String(), "\n")
	}
	return strings.Join(l.lines, "\n")
}

// search finds all occurrences of needle in the page text, ignoring
// case and line breaks, and returns one rectangle per line touched by
// each occurrence.
func (l *layout) search(needle string) []types.Rect {
	needle = strings.ToLower(strings.Join(strings.Fields(needle), " "))
	if needle == "" || len(l.words) == 0 {
		return nil
	}

	// Flatten the page into one space-joined string and remember which
	// word covers each character range.
	var sb strings.Builder
	starts := make([]int, len(l.words))
	for i, w := range l.words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		starts[i] = sb.Len()
		sb.WriteString(strings.ToLower(w.text))
	}
	haystack := sb.String()

	var rects []types.Rect
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			break
		}
		idx += from
		rects = append(rects, l.spanRects(starts, idx, idx+len(needle))...)
		from = idx + len(needle)
	}
	return rects
}

// spanRects maps a character span of the flattened page string to
// per-line union rectangles of the words it covers.
func (l *layout) spanRects(starts []int, lo, hi int) []types.Rect {
	var rects []types.Rect
	curLine := -1
	for i, w := range l.words {
		end := starts[i] + len(w.text)
		if end <= lo || starts[i] >= hi {
			continue
		}
		if w.line != curLine {
			rects = append(rects, w.rect)
			curLine = w.line
		} else {
			rects[len(rects)-1] = union(rects[len(rects)-1], w.rect)
		}
	}
	return rects
}

func union(a, b types.Rect) types.Rect {
	return types.Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
