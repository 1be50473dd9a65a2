package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// reAmountRun matches a numeric run whose digits are broken into groups of
// three by a space or a stray separator, optionally ending in a two-digit
// decimal part: "1 234", "1 234,56", "12.345.678,90", "1,234.56".
// Thousand groups are exactly three digits and the run must sit on word
// boundaries, so card numbers (grouped in fours) and unbroken account runs
// never match.
var reAmountRun = regexp.MustCompile(`\b\d+(?:[ .,]\d{3})+(?:[.,]\d{2})?\b`)

// RejoinAmounts rewrites every broken numeric run into the canonical form
// 1,234.56: comma thousands, dot decimals, no internal whitespace.
func RejoinAmounts(text string) string {
	return reAmountRun.ReplaceAllStringFunc(text, canonicalAmount)
}

// canonicalAmount normalizes one matched run. A trailing separator followed
// by exactly two digits is the decimal mark; every other separator groups
// thousands.
func canonicalAmount(run string) string {
	intDigits, decDigits := splitAmount(run)

	d, err := decimal.NewFromString(intDigits)
	if err != nil {
		return run
	}
	out := groupThousands(d.String())
	if decDigits != "" {
		out += "." + decDigits
	}
	return out
}

func splitAmount(run string) (intDigits, decDigits string) {
	last := strings.LastIndexAny(run, " .,")
	if last >= 0 && len(run)-last-1 == 2 {
		decDigits = run[last+1:]
		run = run[:last]
	}
	var b strings.Builder
	for _, r := range run {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String(), decDigits
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
