package bankstmt

import (
	"bytes"
	"path/filepath"
	"strings"
)

// inputKind classifies the document input.
type inputKind int

const (
	kindUnknown inputKind = iota
	kindPDF
	kindImage
)

var imageMediaTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/tiff": "tif",
	"image/bmp":  "bmp",
}

var imageExtensions = map[string]string{
	".jpg": "jpg", ".jpeg": "jpg",
	".png": "png",
	".gif": "gif",
	".tif": "tif", ".tiff": "tif",
	".bmp": "bmp",
}

// sniffKind classifies input by declared media type, then filename
// extension, then the PDF magic header as a last resort. format is the
// short image format name ("jpg", "png", ...) for image inputs.
func sniffKind(data []byte, mediaType, filename string) (kind inputKind, format string) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "application/pdf" {
		return kindPDF, ""
	}
	if f, ok := imageMediaTypes[mt]; ok {
		return kindImage, f
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return kindPDF, ""
	}
	if f, ok := imageExtensions[ext]; ok {
		return kindImage, f
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return kindPDF, ""
	}
	return kindUnknown, ""
}
