// Package redact scrubs personally identifiable financial data from
// statement text before it leaves the local process.
//
// Redaction is one-way: matched spans are destroyed in place and no mapping
// back to the original values is kept.
package redact

import "regexp"

// Replacement tokens. None of them contain digits or address-like text, so
// redaction is idempotent: re-running over already-redacted text changes
// nothing.
const (
	CardToken    = "[NÚMERO DE TARJETA REDACTADO]"
	AccountToken = "[NÚMERO DE CUENTA REDACTADO]"
	CLABEToken   = "[CLABE REDACTADA]"
	EmailToken   = "[CORREO REDACTADO]"
	NameToken    = "[NOMBRE REDACTADO]"
)

var (
	// Card numbers: 13-16 digits in groups of four, optionally separated by
	// spaces or hyphens. The word boundaries keep the pattern from eating
	// the first 16 digits of a longer run (an 18-digit CLABE stays intact
	// for the CLABE rule below).
	reCard = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{1,4}\b`)

	// CLABE: exactly 18 contiguous digits. Must run before the generic
	// account rule, which an 18-digit run would also satisfy.
	reCLABE = regexp.MustCompile(`\b\d{18}\b`)

	// Generic account numbers: 10-20 contiguous digits. Runs last among the
	// digit rules so card- and CLABE-shaped spans are already labeled.
	reAccount = regexp.MustCompile(`\b\d{10,20}\b`)

	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Titleholder: two or three name words after a "Titular:" label, either
	// capitalized or fully upper-cased (statements usually print the holder
	// name in all caps). The label itself is preserved.
	nameWord  = `(?:[A-ZÁÉÍÓÚÑ][a-záéíóúñü]+|[A-ZÁÉÍÓÚÑ]{2,})`
	reTitular = regexp.MustCompile(`(Titular:?\s*)(` + nameWord + `(?:\s+` + nameWord + `){1,2})`)
)

// Redact applies the five redaction rules in fixed order. The order is load
// bearing: card before CLABE before account, so the most specific digit
// shape labels each span exactly once.
func Redact(text string) string {
	text = reCard.ReplaceAllString(text, CardToken)
	text = reCLABE.ReplaceAllString(text, CLABEToken)
	text = reAccount.ReplaceAllString(text, AccountToken)
	text = reEmail.ReplaceAllString(text, EmailToken)
	text = reTitular.ReplaceAllString(text, "${1}"+NameToken)
	return text
}
