// Package money formats monetary amounts the way the commercial documents
// print them: "R$ 1,234.56" with grouped thousands and two decimals.
package money

import (
	"fmt"
	"strings"
)

// Format renders an amount in the document currency style, e.g. 160000 ->
// "R$ 160,000.00". Negative amounts keep the sign before the digits.
func Format(amount float64) string {
	return "R$ " + Group(amount)
}

// Group renders an amount with thousand separators and two decimals,
// without the currency prefix.
func Group(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
