// Command bankstmt extracts clean, redacted text from a bank-statement
// document.
//
// Local engine (default):
//
//	go run ./cmd/bankstmt --file ./estados/enero.pdf
//
// Remote API:
//
//	OCRSPACE_API_KEY=... go run ./cmd/bankstmt \
//	  --file ./estados/enero.pdf \
//	  --backend ocrspace \
//	  --max-remote-pages 4
//
// Scanned image input:
//
//	go run ./cmd/bankstmt --file ./estados/foto.jpg --lang spa
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvaldezr/bankstmt"
	"github.com/dvaldezr/bankstmt/ocr"
)

func main() {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	var (
		filePath    = flag.String("file", "", "Path to the statement document (PDF or image)")
		backend     = flag.String("backend", bankstmt.BackendTesseract, "OCR backend: tesseract, ocrspace")
		languages   = flag.String("lang", "spa,eng", "Comma-separated recognition languages")
		apiKey      = flag.String("api-key", "", "Remote OCR API key (default: $OCRSPACE_API_KEY)")
		elevated    = flag.Bool("elevated-tier", false, "Use the elevated remote payload ceiling (5 MiB instead of 1 MiB)")
		strict      = flag.Bool("strict", false, "Use the strict scan-detection threshold (8% special characters)")
		maxPages    = flag.Int("max-remote-pages", 4, "Maximum pages sent to the remote backend per document")
		renderScale = flag.Float64("render-scale", 2.0, "Rasterization scale for OCR-bound pages")
		rawOut      = flag.Bool("raw", false, "Print the raw extracted text instead of the normalized text")
		jsonOut     = flag.Bool("json", false, "Print the full result as JSON")
		quiet       = flag.Bool("quiet", false, "Suppress progress messages")
		timeout     = flag.Duration("timeout", 5*time.Minute, "Overall extraction deadline")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *filePath == "" {
		log.Fatal("--file flag is required")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := bankstmt.DefaultConfig()
	cfg.Backend = *backend
	cfg.Languages = splitLanguages(*languages)
	cfg.MaxRemotePages = *maxPages
	cfg.RenderScale = *renderScale
	if *strict {
		cfg.MaxSpecialRatio = 0.08
	}
	if !*quiet {
		cfg.Progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
	}

	if *backend == bankstmt.BackendOCRSpace {
		key := *apiKey
		if key == "" {
			key = os.Getenv("OCRSPACE_API_KEY")
		}
		if key == "" {
			log.Fatal("remote backend requires --api-key or $OCRSPACE_API_KEY")
		}
		cfg.Remote.APIKey = key
		if *elevated {
			cfg.Remote.SizeLimit = ocr.ElevatedTierSizeLimit
		}
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("reading %s: %v", *filePath, err)
	}

	extractor, err := bankstmt.New(cfg)
	if err != nil {
		log.Fatalf("configuring extractor: %v", err)
	}
	defer extractor.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := extractor.Extract(ctx, bankstmt.Input{
		Data:      data,
		MediaType: mime.TypeByExtension(filepath.Ext(*filePath)),
		Filename:  filepath.Base(*filePath),
	})
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	switch {
	case *jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding result: %v", err)
		}
	case *rawOut:
		fmt.Println(result.RawText)
	default:
		fmt.Fprintf(os.Stderr, "Banco: %s\n\n", result.Bank)
		fmt.Println(result.NormalizedText)
	}
}

func splitLanguages(s string) []string {
	var out []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
