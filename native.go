package bankstmt

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/dvaldezr/bankstmt/layout"
)

// defaultPageHeight is US Letter in PDF units, used when a page carries no
// resolvable MediaBox.
const defaultPageHeight = 792.0

// pdfDocument is an open native text-layer session over an in-memory PDF.
type pdfDocument struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (*pdfDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &pdfDocument{reader: reader}, nil
}

func (d *pdfDocument) numPages() int {
	return d.reader.NumPage()
}

// pageText extracts one page's native text layer (1-based), rebuilt into
// reading order from positioned glyphs.
func (d *pdfDocument) pageText(number int) (text string, err error) {
	// The content-stream parser panics on malformed pages; a bad page
	// must not abort the document.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: malformed content stream: %v", number, r)
		}
	}()

	page := d.reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", number)
	}

	content := page.Content()
	glyphs := make([]layout.Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, layout.Glyph{Text: t.S, X: t.X, Y: t.Y, W: t.W})
	}
	return layout.Extract(glyphs, pageHeight(page)), nil
}

// pageHeight resolves the page's MediaBox height, walking to the parent
// pages node when the page inherits its box.
func pageHeight(page pdf.Page) float64 {
	for _, v := range []pdf.Value{page.V.Key("MediaBox"), page.V.Key("Parent").Key("MediaBox")} {
		if v.Kind() == pdf.Array && v.Len() == 4 {
			if h := v.Index(3).Float64() - v.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return defaultPageHeight
}
