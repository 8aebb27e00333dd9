// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Highlight is one request to mark a verbatim quote on a page.
type Highlight struct {
	// Page is the 1-based page number the quote was taken from.
	Page int `json:"page" yaml:"page"`

	// Quote is the verbatim excerpt to locate on the page.
	Quote string `json:"quote" yaml:"quote"`

	// Label is an optional category tag (e.g. "Constraint", "Numbers",
	// "Decision") attached to the annotation as its comment. Empty
	// means no comment.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// HighlightFile is the on-disk document wrapping a list of highlights.
// The JSON form matches the extraction collaborator's output:
// {"highlights": [{"page": 1, "quote": "...", "label": "..."}]}.
type HighlightFile struct {
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}

// Rect is an axis-aligned region in a page's coordinate space, with
// the origin at the lower-left corner (PDF default user space).
// Rects are produced by a page's search primitive, never synthesized.
type Rect struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// UnresolvedReason tags why a highlight could not be applied.
type UnresolvedReason string

const (
	// ReasonOutOfRange means the request named a page outside
	// 1..PageCount.
	ReasonOutOfRange UnresolvedReason = "out_of_range"

	// ReasonNotFound means the quote matched nothing on the page
	// after all resolution stages, or the quote was empty.
	ReasonNotFound UnresolvedReason = "not_found"
)

// Unresolved describes one highlight request that produced no
// annotation.
type Unresolved struct {
	// Index is the 0-based position of the request in the input batch.
	Index int `json:"index" yaml:"index"`

	// Page is the requested page number as given.
	Page int `json:"page" yaml:"page"`

	// Quote is the requested quote as given.
	Quote string `json:"quote" yaml:"quote"`

	// Reason tags the failure: out_of_range or not_found.
	Reason UnresolvedReason `json:"reason" yaml:"reason"`
}

// Report summarizes one batch highlighting run. Unresolved entries
// appear in input order.
type Report struct {
	Total      int          `json:"total" yaml:"total"`
	Resolved   int          `json:"resolved" yaml:"resolved"`
	Unresolved []Unresolved `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// HasFailures reports whether any request went unresolved.
func (r Report) HasFailures() bool {
	return len(r.Unresolved) > 0
}
