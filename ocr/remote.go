package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dvaldezr/bankstmt/raster"
)

// Payload ceilings for the remote service tiers.
const (
	FreeTierSizeLimit     = 1 << 20 // 1 MiB
	ElevatedTierSizeLimit = 5 << 20 // 5 MiB
)

const defaultRemoteEndpoint = "https://api.ocr.space/parse/image"

// RemoteConfig configures the remote-API backend. The API key lives here,
// not in process-global state.
type RemoteConfig struct {
	APIKey   string
	Endpoint string

	// SizeLimit is the payload ceiling in bytes; default FreeTierSizeLimit.
	SizeLimit int

	// Language is the service's combined language code; default "spa".
	Language string

	// Engine selects the service's recognition engine; default 2.
	Engine int

	// Attempts is the total request attempts per image; default 3.
	Attempts int

	// Backoff is the fixed delay between attempts; default 1s.
	Backoff time.Duration

	// HTTPClient overrides the default 60s-timeout client.
	HTTPClient *http.Client

	// Progress receives status messages; nil disables reporting.
	Progress ProgressFunc
}

// Remote is the remote-API backend. It holds no recognition state; each
// call is independent.
type Remote struct {
	cfg  RemoteConfig
	http *http.Client
}

// NewRemote creates a remote OCR backend.
func NewRemote(cfg RemoteConfig) *Remote {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultRemoteEndpoint
	}
	if cfg.SizeLimit <= 0 {
		cfg.SizeLimit = FreeTierSizeLimit
	}
	if cfg.Language == "" {
		cfg.Language = "spa"
	}
	if cfg.Engine == 0 {
		cfg.Engine = 2
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Remote{cfg: cfg, http: client}
}

func (r *Remote) Name() string { return "ocrspace" }

func (r *Remote) report(msg string) {
	if r.cfg.Progress != nil {
		r.cfg.Progress(msg)
	}
}

// remoteResponse is the service's JSON shape.
type remoteResponse struct {
	ParsedResults []struct {
		ParsedText  string          `json:"ParsedText"`
		TextOverlay json.RawMessage `json:"TextOverlay"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Recognize sends one image to the remote service, compressing once if it
// exceeds the payload ceiling and retrying transient failures with a fixed
// backoff. An oversized payload is never transmitted.
func (r *Remote) Recognize(ctx context.Context, img Image, languages []string) (*Result, error) {
	if r.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: remote OCR API key missing", ErrNotConfigured)
	}

	if len(img.Data) > r.cfg.SizeLimit {
		r.report(fmt.Sprintf("ocrspace: imagen de %d KB excede el límite, recomprimiendo", len(img.Data)/1024))
		shrunk, err := raster.Shrink(img.Data, r.cfg.SizeLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: recompression failed: %v", ErrPayloadTooLarge, err)
		}
		if len(shrunk) > r.cfg.SizeLimit {
			return nil, fmt.Errorf("%w: %d bytes after recompression (limit %d)",
				ErrPayloadTooLarge, len(shrunk), r.cfg.SizeLimit)
		}
		img = Image{Data: shrunk, Format: "jpg"}
	}

	language := r.cfg.Language
	if len(languages) > 0 {
		language = languages[0]
	}

	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		if attempt > 1 {
			r.report(fmt.Sprintf("ocrspace: reintento %d de %d", attempt, r.cfg.Attempts))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.cfg.Backoff):
			}
		}

		result, retryable, err := r.doRequest(ctx, img, language)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %d attempts exhausted: %v", ErrRecognition, r.cfg.Attempts, lastErr)
}

// doRequest performs one HTTP attempt. retryable reports whether the
// failure is transient (network error, 5xx).
func (r *Remote) doRequest(ctx context.Context, img Image, language string) (result *Result, retryable bool, err error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"language":  language,
		"isTable":   "true",
		"scale":     "true",
		"OCREngine": strconv.Itoa(r.cfg.Engine),
		"filetype":  strings.ToUpper(img.Format),
	}
	for k, v := range fields {
		if werr := writer.WriteField(k, v); werr != nil {
			return nil, false, fmt.Errorf("building request: %w", werr)
		}
	}
	part, werr := writer.CreateFormFile("file", "page."+strings.ToLower(img.Format))
	if werr != nil {
		return nil, false, fmt.Errorf("building request: %w", werr)
	}
	if _, werr := part.Write(img.Data); werr != nil {
		return nil, false, fmt.Errorf("building request: %w", werr)
	}
	writer.Close()

	req, werr := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, &body)
	if werr != nil {
		return nil, false, fmt.Errorf("building request: %w", werr)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("apikey", r.cfg.APIKey)

	resp, herr := r.http.Do(req)
	if herr != nil {
		return nil, true, fmt.Errorf("sending request: %w", herr)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrAuthentication, resp.StatusCode, respBody)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error %d: %s", resp.StatusCode, respBody)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrRecognition, resp.StatusCode, respBody)
	}

	var parsed remoteResponse
	if jerr := json.Unmarshal(respBody, &parsed); jerr != nil {
		return nil, false, fmt.Errorf("%w: decoding response: %v", ErrRecognition, jerr)
	}
	if parsed.IsErroredOnProcessing {
		return nil, false, fmt.Errorf("%w: %s", ErrRecognition, string(parsed.ErrorMessage))
	}

	var texts []string
	var overlay json.RawMessage
	for i, pr := range parsed.ParsedResults {
		texts = append(texts, pr.ParsedText)
		if i == 0 {
			overlay = pr.TextOverlay
		}
	}
	return &Result{Text: strings.TrimSpace(strings.Join(texts, "\n")), Overlay: overlay}, false, nil
}

// Close is a no-op; the remote backend holds no local resources.
func (r *Remote) Close() error { return nil }
