package normalize

import "regexp"

// Rule is one ordered (pattern, replacement) repair.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Bank-specific repair tables. Each table is an ordered list applied
// left-to-right; later rules may act on text rewritten by earlier ones, so
// order must be preserved.
//
// The entries repair the systematic corruption each bank's embedded fonts
// produce under OCR: letter-spaced vocabulary, digit/letter confusions in
// known words, and amount formatting broken by font substitution.
var bankRules = map[Bank][]Rule{
	BankHSBC: {
		{regexp.MustCompile(`(?i)\bC\s*U\s*E\s*N\s*T\s*A\b`), "CUENTA"},
		{regexp.MustCompile(`(?i)\bS\s*A\s*L\s*D\s*O\b`), "SALDO"},
		{regexp.MustCompile(`(?i)\bT\s*A\s*R\s*J\s*E\s*T\s*A\b`), "TARJETA"},
		{regexp.MustCompile(`\bESTAD0\b`), "ESTADO"},
		{regexp.MustCompile(`\bPERI0DO\b`), "PERIODO"},
		{regexp.MustCompile(`\bM0VIMIENTOS\b`), "MOVIMIENTOS"},
		{regexp.MustCompile(`\b(CUENTA|SALDO|TARJETA) N0\b`), "$1 NO"},
		{regexp.MustCompile(`\$\s+(\d)`), "$$$1"},
	},
	BankBBVA: {
		{regexp.MustCompile(`\bB\s*B\s*V\s*A\b`), "BBVA"},
		{regexp.MustCompile(`(?i)\bBAN\s+COMER\b`), "BANCOMER"},
		{regexp.MustCompile(`\bCARG0S\b`), "CARGOS"},
		{regexp.MustCompile(`\bAB0NOS\b`), "ABONOS"},
		{regexp.MustCompile(`\$\s+(\d)`), "$$$1"},
	},
	BankSantander: {
		{regexp.MustCompile(`(?i)\bSANT\s+ANDER\b`), "SANTANDER"},
		{regexp.MustCompile(`\bSALD0\b`), "SALDO"},
		{regexp.MustCompile(`\bDEP0SITO(S?)\b`), "DEPOSITO$1"},
		{regexp.MustCompile(`\$\s+(\d)`), "$$$1"},
	},
	BankBanorte: {
		{regexp.MustCompile(`(?i)\bBAN\s+ORTE\b`), "BANORTE"},
		{regexp.MustCompile(`\bRETIR0(S?)\b`), "RETIRO$1"},
		{regexp.MustCompile(`\$\s+(\d)`), "$$$1"},
	},
	BankCitibanamex: {
		{regexp.MustCompile(`(?i)\bBANAME\s+X\b`), "BANAMEX"},
		{regexp.MustCompile(`\bC1TI\b`), "CITI"},
		{regexp.MustCompile(`\bSUCURSA1\b`), "SUCURSAL"},
		{regexp.MustCompile(`\$\s+(\d)`), "$$$1"},
	},
}

// genericRules is the fallback applied when no bank is identified:
// abbreviation expansion only (digit rejoining already ran as its own
// pipeline stage).
var genericRules = []Rule{
	{regexp.MustCompile(`\bNo\.\s*`), "Número "},
	{regexp.MustCompile(`\bNum\.\s*`), "Número "},
	{regexp.MustCompile(`\bRef\.\s*`), "Referencia "},
}

// ApplyBankRules applies the identified bank's repair table, or the generic
// fallback when the bank is unknown.
func ApplyBankRules(text string, bank Bank) string {
	rules, ok := bankRules[bank]
	if !ok {
		rules = genericRules
	}
	for _, r := range rules {
		text = r.Pattern.ReplaceAllString(text, r.Replacement)
	}
	return text
}
