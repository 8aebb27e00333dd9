// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"reflect"
	"testing"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// glyphRun lays out a string as a glyph stream at the given position,
// 10 units per glyph, 10 units tall.
func glyphRun(s string, x, baseline float64) []glyphBox {
	var gs []glyphBox
	for _, r := range s {
		gs = append(gs, glyphBox{
			text:     string(r),
			rect:     types.Rect{X0: x, Y0: baseline - 2, X1: x + 10, Y1: baseline + 8},
			baseline: baseline,
		})
		x += 10
	}
	return gs
}

func TestAssembleLinesInReadingOrder(t *testing.T) {
	// Emit the lower line first; assembly must reorder top to bottom.
	gs := append(glyphRun("second line", 72, 100), glyphRun("first line", 72, 200)...)

	lay := assemble(gs)
	want := "first line\nsecond line"
	if got := lay.text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestAssembleWordsWithinLineByX(t *testing.T) {
	gs := append(glyphRun("world", 200, 100), glyphRun("hello", 72, 100)...)

	lay := assemble(gs)
	if got := lay.text(); got != "hello world" {
		t.Errorf("text = %q, want %q", got, "hello world")
	}
}

func TestAssembleEmptyPage(t *testing.T) {
	lay := assemble(nil)
	if got := lay.text(); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
	if rects := lay.search("anything"); rects != nil {
		t.Errorf("search on empty page = %+v", rects)
	}
}

func TestSearchSingleLine(t *testing.T) {
	lay := assemble(glyphRun("the committee approved the merger", 72, 100))

	rects := lay.search("committee approved")
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	// "committee" starts after "the " (4 glyphs of 10 units from 72).
	want := types.Rect{X0: 112, Y0: 98, X1: 292, Y1: 108}
	if !reflect.DeepEqual(rects[0], want) {
		t.Errorf("rect = %+v, want %+v", rects[0], want)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	lay := assemble(glyphRun("The Merger Was Approved", 72, 100))

	if rects := lay.search("the merger"); len(rects) != 1 {
		t.Errorf("got %d rects, want 1", len(rects))
	}
}

func TestSearchAcrossLineBreak(t *testing.T) {
	gs := append(glyphRun("revenue grew by", 72, 200), glyphRun("twelve percent", 72, 100)...)
	lay := assemble(gs)

	rects := lay.search("grew by twelve")
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want one per line", len(rects))
	}
	if rects[0].Y0 <= rects[1].Y0 {
		t.Errorf("rects out of top-to-bottom order: %+v", rects)
	}
}

func TestSearchMultipleOccurrences(t *testing.T) {
	lay := assemble(glyphRun("risk here and risk there", 72, 100))

	if rects := lay.search("risk"); len(rects) != 2 {
		t.Errorf("got %d rects, want 2", len(rects))
	}
}

func TestSearchNoMatch(t *testing.T) {
	lay := assemble(glyphRun("lorem ipsum dolor", 72, 100))

	if rects := lay.search("missing phrase"); rects != nil {
		t.Errorf("rects = %+v, want none", rects)
	}
}

func TestSearchEmptyNeedle(t *testing.T) {
	lay := assemble(glyphRun("some text", 72, 100))

	if rects := lay.search("   "); rects != nil {
		t.Errorf("rects = %+v, want none", rects)
	}
}
