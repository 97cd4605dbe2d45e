package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders d with two decimals and thousands separators,
// e.g. 15000.5 -> "15,000.50".
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	integerPart, decimalPart, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(decimalPart)
	return b.String()
}

// FormatCurrency prefixes FormatAmount with symbol.
func FormatCurrency(symbol string, d decimal.Decimal) string {
	return symbol + FormatAmount(d)
}

// FormatKgs renders a quantity as "12.50 kgs".
func FormatKgs(d decimal.Decimal) string {
	return FormatAmount(d) + " kgs"
}
