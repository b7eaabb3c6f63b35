package salarycap

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as whole dollars with thousands separators, e.g.
// "$10,903,000" or "-$250,000"
func FormatMoney(d decimal.Decimal) string {
	str := d.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("$")
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(digit)
	}
	return b.String()
}

// FormatMoneyShort renders an amount in millions, e.g. "$10.9M"
func FormatMoneyShort(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1_000_000)) {
		return FormatMoney(d)
	}
	m := d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1)
	if strings.HasPrefix(m, "-") {
		return "-$" + m[1:] + "M"
	}
	return "$" + m + "M"
}
