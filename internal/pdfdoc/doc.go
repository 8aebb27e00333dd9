// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc adapts PDF files to the page abstraction used by the
// resolution and annotation stages. It extracts positioned text from
// content streams and writes highlight annotations back into the page
// tree.
package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/loader"
	"seehuhn.de/go/pdf/graphics/matrix"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/reader"

	"github.com/franmgl2001/case-highlighter/internal/annotate"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Document is an open PDF file held fully in memory.
type Document struct {
	data     *pdf.Data
	pageRefs []pdf.Reference
	fonts    *loader.FontLoader
	layouts  map[int]*layout
}

// Open reads a PDF file into memory.
func Open(path string) (*Document, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer fd.Close()

	data, err := pdf.Read(fd, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing PDF %s: %w", path, err)
	}

	refs, err := pagetree.FindPages(data)
	if err != nil {
		return nil, fmt.Errorf("reading page tree: %w", err)
	}

	return &Document{
		data:     data,
		pageRefs: refs,
		fonts:    loader.NewFontLoader(),
		layouts:  make(map[int]*layout),
	}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pageRefs)
}

// Page returns the page with the given 1-based number.
func (d *Document) Page(number int) (annotate.Page, error) {
	if number < 1 || number > len(d.pageRefs) {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", number, len(d.pageRefs))
	}

	lay, err := d.pageLayout(number)
	if err != nil {
		return nil, err
	}
	return &Page{doc: d, ref: d.pageRefs[number-1], layout: lay}, nil
}

// Texts extracts the text of every page in page order.
func (d *Document) Texts() ([]string, error) {
	texts := make([]string, len(d.pageRefs))
	for i := range d.pageRefs {
		lay, err := d.pageLayout(i + 1)
		if err != nil {
			return nil, err
		}
		texts[i] = lay.text()
	}
	return texts, nil
}

// pageLayout parses the page's content streams once and caches the
// assembled text layout.
func (d *Document) pageLayout(number int) (*layout, error) {
	if lay, ok := d.layouts[number]; ok {
		return lay, nil
	}

	pageDict, err := pagetree.GetPage(d.data, number-1)
	if err != nil {
		return nil, fmt.Errorf("loading page %d: %w", number, err)
	}

	rdr := reader.New(d.data, d.fonts)

	var glyphs []glyphBox
	rdr.DrawGlyph = func(g font.Glyph) error {
		m := rdr.TextMatrix.Mul(rdr.CTM)
		size := rdr.TextFontSize

		// Approximate the glyph box from the font size; exact extents
		// would require consulting the font's glyph metrics.
		asc := 0.8 * size
		desc := -0.2 * size

		x0, y0 := m.Apply(0, g.Rise+desc)
		x1, y1 := m.Apply(g.Advance, g.Rise+asc)
		_, base := m.Apply(0, g.Rise)

		glyphs = append(glyphs, glyphBox{
			text:     string(g.Text),
			rect:     normalizeRect(x0, y0, x1, y1),
			baseline: base,
		})
		return nil
	}

	if err := rdr.ParsePage(pageDict, matrix.Identity); err != nil {
		return nil, fmt.Errorf("parsing content of page %d: %w", number, err)
	}

	lay := assemble(glyphs)
	d.layouts[number] = lay
	return lay, nil
}

// Save writes the document to path. The write goes to a temporary file
// in the same directory first so an interrupted save never leaves a
// truncated PDF behind.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".highlighter-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := d.data.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func normalizeRect(x0, y0, x1, y1 float64) types.Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return types.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}
