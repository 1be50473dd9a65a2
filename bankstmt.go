// Package bankstmt extracts, normalizes and sanitizes text from
// bank-statement documents (PDF or scanned image).
//
// The pipeline reconciles the document's native text layer with OCR of
// rendered pages, repairs bank-specific font corruption, and redacts
// personal financial identifiers before the text leaves the process. The
// cleaned text is what a host application hands to its downstream
// language-model analysis step.
package bankstmt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dvaldezr/bankstmt/normalize"
	"github.com/dvaldezr/bankstmt/ocr"
	"github.com/dvaldezr/bankstmt/raster"
	"github.com/dvaldezr/bankstmt/redact"
)

// Source identifies which extraction path produced a page's text.
type Source string

const (
	SourceNative    Source = "native"
	SourceOCRLocal  Source = "ocr-local"
	SourceOCRRemote Source = "ocr-remote"
)

// Input is one document handed in by the host: a byte buffer plus its
// declared media type and filename (extension fallback for type sniffing).
type Input struct {
	Data      []byte
	MediaType string
	Filename  string
}

// PageResult is the extraction outcome for one page. Immutable after
// creation.
type PageResult struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	Source     Source `json:"source"`
}

// Result is the document-level extraction outcome.
type Result struct {
	// RawText is the page texts joined with "--- Página N ---" markers.
	RawText string `json:"raw_text"`

	// NormalizedText is RawText after bank-specific repair and personal
	// data redaction. It is the only text that should leave the process.
	NormalizedText string `json:"normalized_text"`

	// Bank is recomputed from RawText on every extraction, never cached
	// across documents.
	Bank normalize.Bank `json:"bank"`

	Pages []PageResult `json:"pages"`

	// ProcessedByPages reports whether any page went through the
	// rasterize-then-OCR path.
	ProcessedByPages bool `json:"processed_by_pages"`
}

// Extractor runs the extraction pipeline. One extractor processes one
// document at a time; hosts wanting parallel documents create independent
// extractors.
type Extractor struct {
	cfg      Config
	backend  ocr.Backend
	ownedOCR bool
	metered  bool
	source   Source
}

// New creates an Extractor. The OCR backend is constructed from cfg but
// acquires no engine resources until a page actually needs recognition.
func New(cfg Config) (*Extractor, error) {
	cfg.applyDefaults()

	e := &Extractor{cfg: cfg}

	if cfg.OCR != nil {
		e.backend = cfg.OCR
		e.metered = cfg.Backend == BackendOCRSpace
	} else {
		switch cfg.Backend {
		case BackendTesseract:
			tcfg := cfg.Tesseract
			if tcfg.Progress == nil {
				tcfg.Progress = ocr.ProgressFunc(e.report)
			}
			e.backend = ocr.NewTesseract(tcfg)
			e.ownedOCR = true
		case BackendOCRSpace:
			rcfg := cfg.Remote
			if rcfg.Progress == nil {
				rcfg.Progress = ocr.ProgressFunc(e.report)
			}
			e.backend = ocr.NewRemote(rcfg)
			e.ownedOCR = true
			e.metered = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
		}
	}

	if e.metered {
		e.source = SourceOCRRemote
	} else {
		e.source = SourceOCRLocal
	}
	return e, nil
}

// Close releases the OCR session if the extractor owns it. Guaranteed safe
// after failed extractions.
func (e *Extractor) Close() error {
	if e.backend == nil || !e.ownedOCR {
		return nil
	}
	return e.backend.Close()
}

// report forwards a status message to the progress sink. The sink must
// never fail the pipeline, so panics are swallowed.
func (e *Extractor) report(msg string) {
	if e.cfg.Progress == nil {
		return
	}
	defer func() { _ = recover() }()
	e.cfg.Progress(msg)
}

// Extract runs the full pipeline over one document. All intermediate state
// lives and dies within this call; nothing is cached across documents.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	kind, format := sniffKind(in.Data, in.MediaType, in.Filename)
	if kind == kindUnknown {
		return nil, fmt.Errorf("%w: media type %q, file %q", ErrUnsupportedInput, in.MediaType, in.Filename)
	}

	var (
		pages []PageResult
		err   error
	)
	switch kind {
	case kindPDF:
		e.report("Procesando documento PDF")
		pages, err = e.extractPDF(ctx, in.Data)
	case kindImage:
		e.report("Procesando imagen escaneada")
		pages, err = e.extractImage(ctx, in.Data, format)
	}
	if err != nil {
		return nil, err
	}

	yield := false
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			yield = true
			break
		}
	}
	if !yield {
		return nil, ErrZeroYield
	}

	rawText := joinPages(pages)
	bank := normalize.DetectBank(rawText)

	e.report("Normalizando texto extraído")
	normalized := normalize.Normalize(rawText)

	e.report("Redactando datos personales")
	normalized = redact.Redact(normalized)

	processedByPages := false
	for _, p := range pages {
		if p.Source != SourceNative {
			processedByPages = true
			break
		}
	}

	e.report(fmt.Sprintf("Extracción completada: %d páginas, banco %s", len(pages), bank))
	slog.Info("extraction complete",
		"pages", len(pages), "bank", string(bank),
		"by_pages", processedByPages, "chars", len(normalized))

	return &Result{
		RawText:          rawText,
		NormalizedText:   normalized,
		Bank:             bank,
		Pages:            pages,
		ProcessedByPages: processedByPages,
	}, nil
}

// extractPDF walks the document page by page, preferring the native text
// layer and falling back to rasterize-then-OCR when a page looks scanned.
// Pages are strictly sequential: remote byte/page budgets accumulate and
// bank detection feeds on cumulative text.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) ([]PageResult, error) {
	doc, err := openPDF(data)
	if err != nil {
		// No parseable text layer at all: treat the whole document as a
		// scan and let the rendering engine try.
		e.report("PDF sin capa de texto legible, procesando como escaneo")
		return e.extractScannedPDF(ctx, data)
	}

	total := doc.numPages()
	if total == 0 {
		return nil, ErrZeroYield
	}

	var rasterDoc *raster.Document
	defer func() {
		if rasterDoc != nil {
			rasterDoc.Close()
		}
	}()

	ocrPages := 0
	pages := make([]PageResult, 0, total)
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.report(fmt.Sprintf("Procesando página %d de %d", n, total))

		text, nerr := doc.pageText(n)
		if nerr != nil {
			slog.Warn("native extraction failed", "page", n, "error", nerr)
		}

		if !looksScanned(text, e.cfg.MinNativeChars, e.cfg.MaxSpecialRatio) {
			pages = append(pages, PageResult{PageNumber: n, Text: text, Source: SourceNative})
			e.report(fmt.Sprintf("Página %d: texto nativo (%d caracteres)", n, len(text)))
			continue
		}

		// Scanned or corrupted page: OCR fallback, subject to the metered
		// page cap.
		if e.metered && ocrPages >= e.cfg.MaxRemotePages {
			e.report(fmt.Sprintf("Página %d omitida: límite de %d páginas del OCR remoto", n, e.cfg.MaxRemotePages))
			pages = append(pages, PageResult{PageNumber: n, Text: text, Source: SourceNative})
			continue
		}

		if rasterDoc == nil {
			rasterDoc, err = raster.NewDocument(data)
			if err != nil {
				slog.Warn("rasterizer unavailable, keeping native text", "error", err)
				pages = append(pages, PageResult{PageNumber: n, Text: text, Source: SourceNative})
				continue
			}
		}

		ocrText, oerr := e.ocrPage(ctx, rasterDoc, n)
		if oerr != nil {
			e.report(fmt.Sprintf("Página %d: fallo de OCR, se omite (%v)", n, oerr))
			slog.Warn("page OCR failed", "page", n, "error", oerr)
			pages = append(pages, PageResult{PageNumber: n, Text: "", Source: e.source})
			continue
		}
		ocrPages++
		pages = append(pages, PageResult{PageNumber: n, Text: ocrText, Source: e.source})
		e.report(fmt.Sprintf("Página %d: OCR completado (%d caracteres)", n, len(ocrText)))
	}
	return pages, nil
}

// extractScannedPDF handles PDFs whose text layer cannot be opened at all:
// every page goes through the render-and-recognize path.
func (e *Extractor) extractScannedPDF(ctx context.Context, data []byte) ([]PageResult, error) {
	rasterDoc, err := raster.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	defer rasterDoc.Close()

	total := rasterDoc.NumPages()
	if total == 0 {
		return nil, ErrZeroYield
	}

	pages := make([]PageResult, 0, total)
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.metered && n > e.cfg.MaxRemotePages {
			e.report(fmt.Sprintf("Página %d omitida: límite de %d páginas del OCR remoto", n, e.cfg.MaxRemotePages))
			pages = append(pages, PageResult{PageNumber: n, Text: "", Source: e.source})
			continue
		}
		e.report(fmt.Sprintf("Procesando página %d de %d", n, total))

		text, oerr := e.ocrPage(ctx, rasterDoc, n)
		if oerr != nil {
			e.report(fmt.Sprintf("Página %d: fallo de OCR, se omite (%v)", n, oerr))
			slog.Warn("page OCR failed", "page", n, "error", oerr)
			text = ""
		}
		pages = append(pages, PageResult{PageNumber: n, Text: text, Source: e.source})
	}
	return pages, nil
}

// ocrPage renders one page and runs it through the configured backend.
// Transmission-bound paths get lossy JPEG; local recognition gets lossless
// PNG.
func (e *Extractor) ocrPage(ctx context.Context, doc *raster.Document, page int) (string, error) {
	img, err := doc.Render(page, e.cfg.RenderScale)
	if err != nil {
		return "", fmt.Errorf("rendering page %d: %w", page, err)
	}

	var encoded ocr.Image
	if e.metered {
		data, err := raster.EncodeJPEG(img, e.cfg.JPEGQuality)
		if err != nil {
			return "", err
		}
		encoded = ocr.Image{Data: data, Format: "jpg"}
	} else {
		data, err := raster.EncodePNG(img)
		if err != nil {
			return "", err
		}
		encoded = ocr.Image{Data: data, Format: "png"}
	}

	res, err := e.backend.Recognize(ctx, encoded, e.cfg.Languages)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// extractImage handles direct image input: a single logical page sent to
// the backend as-is (the backend enforces its own payload ceiling).
func (e *Extractor) extractImage(ctx context.Context, data []byte, format string) ([]PageResult, error) {
	res, err := e.backend.Recognize(ctx, ocr.Image{Data: data, Format: format}, e.cfg.Languages)
	if err != nil {
		e.report(fmt.Sprintf("Fallo de OCR sobre la imagen: %v", err))
		return nil, fmt.Errorf("recognizing image: %w", err)
	}
	e.report(fmt.Sprintf("OCR completado (%d caracteres)", len(res.Text)))
	return []PageResult{{PageNumber: 1, Text: res.Text, Source: e.source}}, nil
}

// joinPages concatenates page texts with the literal page-separator marker
// consumed by the downstream analysis collaborator.
func joinPages(pages []PageResult) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Página %d ---\n%s", p.PageNumber, p.Text)
	}
	return b.String()
}
