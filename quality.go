package bankstmt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// statementPunct are characters that legitimately appear in statement text
// beyond letters, digits and whitespace.
const statementPunct = `$.,:;()[]{}'"-–—/\#%*+&@!?¿¡_=<>|°`

// specialCharRatio measures how much of the text is neither a letter, a
// digit, whitespace, nor statement punctuation. Native text layers of
// scanned or font-corrupted PDFs score high here (replacement characters,
// private-use glyphs).
func specialCharRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total := 0
	special := 0
	for _, r := range text {
		total++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
		case strings.ContainsRune(statementPunct, r):
		case r == utf8.RuneError:
			special++
		default:
			special++
		}
	}
	return float64(special) / float64(total)
}

// looksScanned decides whether a page's native text layer is unusable and
// the page should fall back to rasterize-then-OCR: too little text, or too
// high a share of non-standard characters.
func looksScanned(text string, minChars int, maxSpecialRatio float64) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minChars {
		return true
	}
	return specialCharRatio(trimmed) > maxSpecialRatio
}
