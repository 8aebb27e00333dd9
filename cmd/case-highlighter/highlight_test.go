// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateQuoteShortUnchanged(t *testing.T) {
	quote := "the committee approved the budget"
	if got := truncateQuote(quote); got != quote {
		t.Errorf("truncateQuote(%q) = %q, want unchanged", quote, got)
	}
}

func TestTruncateQuoteLongASCII(t *testing.T) {
	quote := strings.Repeat("a", 80)
	got := truncateQuote(quote)
	want := strings.Repeat("a", 57) + "..."
	if got != want {
		t.Errorf("truncateQuote = %q, want %q", got, want)
	}
}

func TestTruncateQuoteKeepsRunesIntact(t *testing.T) {
	quote := strings.Repeat("é", 80)
	got := truncateQuote(quote)
	if !utf8.ValidString(got) {
		t.Fatalf("truncateQuote produced invalid UTF-8: %q", got)
	}
	want := strings.Repeat("é", 57) + "..."
	if got != want {
		t.Errorf("truncateQuote = %q, want %q", got, want)
	}
}
