package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount turns free-text input into an amount. Everything except
// digits and the first '.' is discarded and parsing stops at a second '.',
// so "12.5abc" is 12.5 and "1.2.3" is 1.2. Input with no digits yields zero
// rather than an error.
func ParseAmount(input string) decimal.Decimal {
	var b strings.Builder
	seenDot := false

scan:
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if seenDot {
				break scan
			}
			seenDot = true
			b.WriteRune(r)
		}
	}

	s := strings.TrimSuffix(b.String(), ".")
	if s == "" {
		return decimal.Zero
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ZeroCurrency is what FormatCurrency prints for a zero amount.
const ZeroCurrency = "$0,00"

// FormatCurrency renders d in es-AR style: '.' groups thousands, ',' starts
// the fraction, and there are always exactly two fraction digits.
func FormatCurrency(d decimal.Decimal) string {
	if d.IsZero() {
		return ZeroCurrency
	}

	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	if intPart == "0" && frac == "00" {
		return ZeroCurrency
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
