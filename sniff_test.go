package bankstmt

import "testing"

func TestSniffKind(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		mediaType  string
		filename   string
		wantKind   inputKind
		wantFormat string
	}{
		{"pdf media type", nil, "application/pdf", "", kindPDF, ""},
		{"pdf media type with params", nil, "application/pdf; charset=binary", "", kindPDF, ""},
		{"jpeg media type", nil, "image/jpeg", "", kindImage, "jpg"},
		{"png media type uppercase", nil, "IMAGE/PNG", "", kindImage, "png"},
		{"tiff media type", nil, "image/tiff", "", kindImage, "tif"},

		{"pdf extension", nil, "", "enero.PDF", kindPDF, ""},
		{"jpeg extension", nil, "", "scan.jpeg", kindImage, "jpg"},
		{"bmp extension", nil, "", "page.bmp", kindImage, "bmp"},

		{"pdf magic fallback", []byte("%PDF-1.7\n..."), "", "", kindPDF, ""},
		{"media type wins over extension", nil, "image/png", "misnamed.pdf", kindImage, "png"},

		{"unknown everything", []byte("hello"), "", "", kindUnknown, ""},
		{"unknown media type", []byte("hello"), "text/plain", "notas.txt", kindUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, format := sniffKind(tt.data, tt.mediaType, tt.filename)
			if kind != tt.wantKind || format != tt.wantFormat {
				t.Errorf("sniffKind = (%v, %q), want (%v, %q)", kind, format, tt.wantKind, tt.wantFormat)
			}
		})
	}
}
