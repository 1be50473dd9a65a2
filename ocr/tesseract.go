package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// FinancialWhitelist constrains local recognition to the characters that
// appear in bank statements: Spanish letters, digits, currency and
// statement punctuation. Cuts a large share of misrecognition noise on
// low-quality scans.
const FinancialWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" +
	"ÁÉÍÓÚÑÜáéíóúñü0123456789$.,:;()-/#%*+'\"&@ "

// TesseractConfig configures the local recognition engine.
type TesseractConfig struct {
	// Languages are tesseract language codes. Default is spa+eng.
	Languages []string

	// Whitelist constrains recognition to the given character set; empty
	// selects FinancialWhitelist.
	Whitelist string

	// Progress receives status messages; nil disables reporting.
	Progress ProgressFunc
}

// Tesseract is the local-engine backend. The underlying client session is
// created on first use and owned exclusively by this value until Close.
type Tesseract struct {
	cfg    TesseractConfig
	client *gosseract.Client
}

// NewTesseract creates a local OCR backend. No engine resources are
// acquired until the first Recognize call.
func NewTesseract(cfg TesseractConfig) *Tesseract {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"spa", "eng"}
	}
	if cfg.Whitelist == "" {
		cfg.Whitelist = FinancialWhitelist
	}
	return &Tesseract{cfg: cfg}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) report(msg string) {
	if t.cfg.Progress != nil {
		t.cfg.Progress(msg)
	}
}

func (t *Tesseract) ensureClient(languages []string) error {
	if t.client != nil {
		return nil
	}
	t.report("tesseract: iniciando motor de reconocimiento")

	client := gosseract.NewClient()
	if len(languages) == 0 {
		languages = t.cfg.Languages
	}
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return fmt.Errorf("setting languages %s: %w", strings.Join(languages, "+"), err)
	}
	if err := client.SetWhitelist(t.cfg.Whitelist); err != nil {
		client.Close()
		return fmt.Errorf("setting whitelist: %w", err)
	}
	t.client = client
	return nil
}

// Recognize runs the local engine over one image.
func (t *Tesseract) Recognize(ctx context.Context, img Image, languages []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.ensureClient(languages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	if err := t.client.SetImageFromBytes(img.Data); err != nil {
		return nil, fmt.Errorf("%w: setting image: %v", ErrRecognition, err)
	}
	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	return &Result{Text: strings.TrimSpace(text)}, nil
}

// Close terminates the engine session. Idempotent.
func (t *Tesseract) Close() error {
	if t.client == nil {
		return nil
	}
	t.report("tesseract: liberando motor de reconocimiento")
	err := t.client.Close()
	t.client = nil
	return err
}
