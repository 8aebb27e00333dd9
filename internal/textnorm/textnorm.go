// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm canonicalizes text so that layout artifacts do not
// defeat substring matching: soft hyphens, words hyphenated across
// line wraps, and irregular whitespace all normalize away.
package textnorm

import (
	"regexp"
	"strings"
)

const softHyphen = "\u00ad"

var (
	// A hyphen at a line wrap, with optional surrounding whitespace:
	// the two word halves are rejoined.
	lineWrapHyphen = regexp.MustCompile(`-\s*\n\s*`)

	// Any run of whitespace, including newlines.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes s for matching. Transformations, in order:
// soft hyphens (U+00AD) are removed, hyphen-plus-line-break sequences
// collapse to nothing, whitespace runs collapse to a single space, and
// leading/trailing whitespace is trimmed.
//
// Normalize is idempotent and never reorders words or drops
// non-whitespace, non-hyphen characters.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, softHyphen, "")
	s = lineWrapHyphen.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
