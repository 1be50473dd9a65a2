package bankstmt

import (
	"github.com/dvaldezr/bankstmt/ocr"
)

// Backend selector values for Config.Backend.
const (
	BackendTesseract = "tesseract"
	BackendOCRSpace  = "ocrspace"
)

// Config holds all configuration for an Extractor. Credentials live here,
// passed in by the host; there is no process-global credential state.
type Config struct {
	// Backend selects the OCR implementation: "tesseract" (default, local
	// engine) or "ocrspace" (remote API).
	Backend string

	// OCR, when non-nil, is used directly instead of constructing a
	// backend from Backend/Tesseract/Remote. The caller keeps ownership
	// and Close responsibility.
	OCR ocr.Backend

	// Tesseract configures the local engine backend.
	Tesseract ocr.TesseractConfig

	// Remote configures the remote-API backend.
	Remote ocr.RemoteConfig

	// Languages are recognition hints passed to the backend. Default is
	// spa+eng: statement text is predominantly Spanish with embedded
	// English tokens.
	Languages []string

	// MinNativeChars is the minimum native text-layer length per page
	// before the page is treated as a scan. Default 200.
	MinNativeChars int

	// MaxSpecialRatio is the maximum tolerated ratio of non-standard
	// characters in native page text. Default 0.15; 0.08 is the stricter
	// variant.
	MaxSpecialRatio float64

	// MaxRemotePages caps how many pages are sent to a metered remote
	// backend per document. Default 4. Ignored for the local engine.
	MaxRemotePages int

	// RenderScale is the rasterization scale for OCR-bound pages.
	// Default 2.0.
	RenderScale float64

	// JPEGQuality is the lossy quality for transmission-bound bitmaps.
	// Default raster.DefaultJPEGQuality.
	JPEGQuality int

	// Progress receives ordered human-readable status messages. It must
	// never block; errors and panics in the sink are swallowed.
	Progress ProgressFunc
}

// ProgressFunc receives pipeline status messages.
type ProgressFunc func(msg string)

// DefaultConfig returns a Config with the local engine and the default
// scan-detection heuristic.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendTesseract,
		Languages:       []string{"spa", "eng"},
		MinNativeChars:  200,
		MaxSpecialRatio: 0.15,
		MaxRemotePages:  4,
		RenderScale:     2.0,
	}
}

// applyDefaults fills zero values so a partially-populated Config behaves
// like DefaultConfig for the fields left unset.
func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendTesseract
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"spa", "eng"}
	}
	if c.MinNativeChars == 0 {
		c.MinNativeChars = 200
	}
	if c.MaxSpecialRatio == 0 {
		c.MaxSpecialRatio = 0.15
	}
	if c.MaxRemotePages == 0 {
		c.MaxRemotePages = 4
	}
	if c.RenderScale == 0 {
		c.RenderScale = 2.0
	}
}
