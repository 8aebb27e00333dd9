// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"

	"seehuhn.de/go/pdf"

	"github.com/franmgl2001/case-highlighter/internal/annotate"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Page is one page of an open document.
type Page struct {
	doc    *Document
	ref    pdf.Reference
	layout *layout
}

// Text returns the page text, lines separated by newlines.
func (p *Page) Text() string {
	return p.layout.text()
}

// Search returns the regions covered by each occurrence of s on the
// page, one rectangle per line touched. The match ignores case and
// line breaks.
func (p *Page) Search(s string) []types.Rect {
	return p.layout.search(s)
}

// AddHighlight writes a highlight annotation covering r into the page.
func (p *Page) AddHighlight(r types.Rect) (annotate.Annotation, error) {
	data := p.doc.data
	annotRef := data.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Highlight"),
		"Rect":    &pdf.Rectangle{LLx: r.X0, LLy: r.Y0, URx: r.X1, URy: r.Y1},
		// Quad corner order is upper-left, upper-right, lower-left,
		// lower-right.
		"QuadPoints": pdf.Array{
			pdf.Real(r.X0), pdf.Real(r.Y1),
			pdf.Real(r.X1), pdf.Real(r.Y1),
			pdf.Real(r.X0), pdf.Real(r.Y0),
			pdf.Real(r.X1), pdf.Real(r.Y0),
		},
		"C": pdf.Array{pdf.Real(1), pdf.Real(1), pdf.Real(0)},
		"F": pdf.Integer(4),
	}
	if err := data.Put(annotRef, dict); err != nil {
		return nil, fmt.Errorf("storing annotation: %w", err)
	}

	pageDict, err := pdf.GetDict(data, p.ref)
	if err != nil {
		return nil, fmt.Errorf("loading page dictionary: %w", err)
	}
	annots, err := pdf.GetArray(data, pageDict["Annots"])
	if err != nil {
		return nil, fmt.Errorf("loading page annotations: %w", err)
	}
	pageDict["Annots"] = append(annots, annotRef)
	if err := data.Put(p.ref, pageDict); err != nil {
		return nil, fmt.Errorf("updating page dictionary: %w", err)
	}

	return &Highlight{data: data, ref: annotRef, dict: dict}, nil
}

// Highlight is a written highlight annotation.
type Highlight struct {
	data *pdf.Data
	ref  pdf.Reference
	dict pdf.Dict
}

// SetComment attaches a popup note to the annotation.
func (h *Highlight) SetComment(s string) error {
	h.dict["Contents"] = pdf.TextString(s)
	if err := h.data.Put(h.ref, h.dict); err != nil {
		return fmt.Errorf("updating annotation: %w", err)
	}
	return nil
}
