// Package normalize repairs extracted bank-statement text.
//
// OCR of font-embedded statement PDFs produces systematic, bank-specific
// character substitution (custom font encodings) rather than random noise,
// so repair is table-driven: a fixed ordered rule list per bank beats
// generic spell-correction on this input.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Bank identifies the issuing bank of a statement.
type Bank string

const (
	BankHSBC        Bank = "HSBC"
	BankBBVA        Bank = "BBVA"
	BankSantander   Bank = "SANTANDER"
	BankBanorte     Bank = "BANORTE"
	BankCitibanamex Bank = "CITIBANAMEX"
	BankUnknown     Bank = "Unknown"
)

// bankKeywords is checked in priority order; the first bank whose keyword
// appears in the upper-cased text wins.
var bankKeywords = []struct {
	bank     Bank
	keywords []string
}{
	{BankHSBC, []string{"HSBC", "2NOW"}},
	{BankBBVA, []string{"BBVA", "BANCOMER"}},
	{BankSantander, []string{"SANTANDER"}},
	{BankBanorte, []string{"BANORTE"}},
	{BankCitibanamex, []string{"CITIBANAMEX", "BANAMEX"}},
}

// DetectBank identifies the issuing bank by keyword containment over the
// upper-cased text. It is a pure function of its input.
func DetectBank(text string) Bank {
	upper := strings.ToUpper(text)
	for _, entry := range bankKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(upper, kw) {
				return entry.bank
			}
		}
	}
	return BankUnknown
}

// punctReplacer maps Unicode punctuation look-alikes to ASCII. NBSP is
// mapped here so the whitespace collapse that follows sees a plain space.
var punctReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"‘", "'", "’", "'", "‚", "'",
	"“", `"`, "”", `"`, "„", `"`,
	"…", "...",
	"\u00a0", " ",
)

var (
	reCarriage    = regexp.MustCompile(`\r\n?`)
	reInlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	reNewlineRun  = regexp.MustCompile(`\n{2,}`)
	reEdgeSpace   = regexp.MustCompile(` ?\n ?`)
)

// isInvisible reports zero-width and control characters that survive text
// extraction and break downstream pattern matching.
func isInvisible(r rune) bool {
	switch r {
	case 0x200B, 0x200C, 0x200D, 0x2060, 0xFEFF, 0x00AD:
		return true
	}
	return r < 0x20 && r != '\n' && r != '\t'
}

// Normalize runs the full deterministic repair pipeline. Every stage is
// applied unconditionally; the result is idempotent.
func Normalize(text string) string {
	text = norm.NFC.String(text)

	text = strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, reCarriage.ReplaceAllString(text, "\n"))

	text = punctReplacer.Replace(text)

	text = reInlineSpace.ReplaceAllString(text, " ")
	text = reEdgeSpace.ReplaceAllString(text, "\n")
	text = reNewlineRun.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	text = RejoinAmounts(text)

	bank := DetectBank(text)
	text = ApplyBankRules(text, bank)

	// Rules may merge tokens and leave doubled spaces behind.
	text = reInlineSpace.ReplaceAllString(text, " ")

	return text
}
