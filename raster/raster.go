// Package raster renders document pages to bitmaps for OCR and encodes
// them for the local or remote recognition path.
package raster

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// baseDPI is the rendering resolution at scale 1.0.
const baseDPI = 72.0

// Document wraps an open rendering session over an in-memory document.
type Document struct {
	doc *fitz.Document
}

// NewDocument opens a document (PDF or image) from a byte buffer.
func NewDocument(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening document for rendering: %w", err)
	}
	return &Document{doc: doc}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.doc.NumPage()
}

// Render rasterizes one page (1-based) at the given scale. Scale 2.0 renders
// at 144 DPI, which is enough for OCR of statement body text.
func (d *Document) Render(page int, scale float64) (image.Image, error) {
	if page < 1 || page > d.doc.NumPage() {
		return nil, fmt.Errorf("render: page %d out of range", page)
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(page-1, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page, err)
	}
	return img, nil
}

// Close releases the rendering session.
func (d *Document) Close() error {
	return d.doc.Close()
}
