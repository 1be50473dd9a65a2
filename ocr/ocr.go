// Package ocr defines the recognition capability used by the extraction
// pipeline and its local-engine and remote-API implementations.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrPayloadTooLarge is returned when an image exceeds the backend size
	// ceiling even after one recompression attempt.
	ErrPayloadTooLarge = errors.New("ocr: payload exceeds backend size limit")

	// ErrAuthentication is returned when the backend rejects credentials.
	// Never retried: credentials do not become valid by retrying.
	ErrAuthentication = errors.New("ocr: backend rejected credentials")

	// ErrNotConfigured is returned when a backend is missing required
	// configuration (e.g. the remote API key).
	ErrNotConfigured = errors.New("ocr: backend not configured")

	// ErrRecognition is returned when recognition fails after retries are
	// exhausted.
	ErrRecognition = errors.New("ocr: recognition failed")
)

// Image is an encoded bitmap handed to a backend. Format is the encoding
// name ("png", "jpg", ...), which remote backends forward as the filetype.
type Image struct {
	Data   []byte
	Format string
}

// Result is recognized text plus whatever positional overlay the backend
// produced. The overlay is opaque to the pipeline.
type Result struct {
	Text    string
	Overlay json.RawMessage
}

// ProgressFunc receives ordered human-readable status messages. It must be
// cheap; implementations are called synchronously from the pipeline.
type ProgressFunc func(msg string)

// Backend recognizes text in a bitmap. Statement text is predominantly
// Spanish with embedded English tokens, so implementations should request
// combined language models where the engine supports it.
type Backend interface {
	// Name identifies the backend ("tesseract", "ocrspace").
	Name() string

	// Recognize extracts text from one image. languages are hint codes in
	// the backend's own convention; nil means the backend default.
	Recognize(ctx context.Context, img Image, languages []string) (*Result, error)

	// Close releases any recognition session resources. Safe to call more
	// than once.
	Close() error
}
