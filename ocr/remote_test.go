package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func okBody(text string) string {
	return fmt.Sprintf(`{"ParsedResults":[{"ParsedText":%q,"TextOverlay":{"Lines":[]}}],"IsErroredOnProcessing":false}`, text)
}

// pngBytes builds a deterministic noise image. Noise defeats PNG
// compression, so the payload-ceiling tests get predictably large inputs.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	next := func() uint8 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return uint8(seed)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{next(), next(), next(), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestRemote(url string, limit int) *Remote {
	return NewRemote(RemoteConfig{
		APIKey:    "test-key",
		Endpoint:  url,
		SizeLimit: limit,
		Backoff:   0, // no sleeping in tests
	})
}

// ---------------------------------------------------------------------------
// Request shape
// ---------------------------------------------------------------------------

func TestRemoteRecognizeRequestShape(t *testing.T) {
	var gotAPIKey, gotLanguage, gotEngine, gotFiletype string
	var gotFileLen int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
		}
		gotAPIKey = r.Header.Get("apikey")
		gotLanguage = r.FormValue("language")
		gotEngine = r.FormValue("OCREngine")
		gotFiletype = r.FormValue("filetype")
		if f, _, err := r.FormFile("file"); err == nil {
			var buf bytes.Buffer
			buf.ReadFrom(f)
			gotFileLen = buf.Len()
			f.Close()
		}
		fmt.Fprint(w, okBody("SALDO 100"))
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL, FreeTierSizeLimit)
	data := []byte("fake-image-bytes")
	res, err := r.Recognize(context.Background(), Image{Data: data, Format: "png"}, nil)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}

	if res.Text != "SALDO 100" {
		t.Errorf("Text = %q, want %q", res.Text, "SALDO 100")
	}
	if len(res.Overlay) == 0 {
		t.Error("expected overlay passthrough")
	}
	if gotAPIKey != "test-key" {
		t.Errorf("apikey header = %q", gotAPIKey)
	}
	if gotLanguage != "spa" {
		t.Errorf("language = %q, want spa", gotLanguage)
	}
	if gotEngine != "2" {
		t.Errorf("OCREngine = %q, want 2", gotEngine)
	}
	if gotFiletype != "PNG" {
		t.Errorf("filetype = %q, want PNG", gotFiletype)
	}
	if gotFileLen != len(data) {
		t.Errorf("file length = %d, want %d", gotFileLen, len(data))
	}
}

// ---------------------------------------------------------------------------
// Retry policy
// ---------------------------------------------------------------------------

func TestRemoteRecognizeRetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, okBody("RECUPERADO"))
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL, FreeTierSizeLimit)
	res, err := r.Recognize(context.Background(), Image{Data: []byte("img"), Format: "jpg"}, nil)
	if err != nil {
		t.Fatalf("Recognize after retry: %v", err)
	}
	if res.Text != "RECUPERADO" {
		t.Errorf("Text = %q", res.Text)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestRemoteRecognizeExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL, FreeTierSizeLimit)
	_, err := r.Recognize(context.Background(), Image{Data: []byte("img"), Format: "jpg"}, nil)
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("err = %v, want ErrRecognition", err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3 attempts total", hits.Load())
	}
}

func TestRemoteRecognizeAuthFailureNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL, FreeTierSizeLimit)
	_, err := r.Recognize(context.Background(), Image{Data: []byte("img"), Format: "jpg"}, nil)
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (no retry on auth failure)", hits.Load())
	}
}

func TestRemoteRecognizeProcessingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults":[],"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize"]}`)
	}))
	defer srv.Close()

	r := newTestRemote(srv.URL, FreeTierSizeLimit)
	_, err := r.Recognize(context.Background(), Image{Data: []byte("img"), Format: "jpg"}, nil)
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("err = %v, want ErrRecognition", err)
	}
}

func TestRemoteRecognizeMissingKey(t *testing.T) {
	r := NewRemote(RemoteConfig{})
	_, err := r.Recognize(context.Background(), Image{Data: []byte("img"), Format: "jpg"}, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

// ---------------------------------------------------------------------------
// Payload ceiling
// ---------------------------------------------------------------------------

func TestRemoteRecognizeCompressesOversizedPayload(t *testing.T) {
	var received int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(10 << 20)
		if f, _, err := r.FormFile("file"); err == nil {
			var buf bytes.Buffer
			buf.ReadFrom(f)
			received = buf.Len()
			f.Close()
		}
		fmt.Fprint(w, okBody("COMPRIMIDO"))
	}))
	defer srv.Close()

	data := pngBytes(t, 200, 200)
	limit := len(data) / 2 // force exactly one recompression pass

	r := newTestRemote(srv.URL, limit)
	res, err := r.Recognize(context.Background(), Image{Data: data, Format: "png"}, nil)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Text != "COMPRIMIDO" {
		t.Errorf("Text = %q", res.Text)
	}
	if received == 0 || received > limit {
		t.Errorf("transmitted payload = %d bytes, limit %d; oversized payload must never be sent", received, limit)
	}
}

func TestRemoteRecognizePayloadTooLarge(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, okBody("NUNCA"))
	}))
	defer srv.Close()

	// A ceiling no valid JPEG can fit under: recompression runs once and
	// the call fails without transmitting anything.
	data := pngBytes(t, 64, 64)
	r := newTestRemote(srv.URL, 100)
	_, err := r.Recognize(context.Background(), Image{Data: data, Format: "png"}, nil)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want ErrPayloadTooLarge", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
}
