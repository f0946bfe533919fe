// Package currency parses and formats euro amounts in the German sheet
// convention: space as thousands separator, comma as decimal separator and a
// trailing symbol, e.g. "1 234,56 €".
//
// The convention is fixed and never derived from the environment. Amounts are
// kept as decimals and rounded to cents with half-up rounding.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is appended to every formatted amount
const Symbol = "€"

const (
	groupSeparator   = " "
	decimalSeparator = ","
	precision        = 2
)

// ErrInvalidAmount is returned when a string does not contain a readable amount
var ErrInvalidAmount = errors.New("invalid currency amount")

// Parse reads a sheet amount such as "10,50", "1 234,56 €", "1.234,56" or
// "(3,20)". Dots and spaces are thousands separators, parentheses or a
// leading minus make the amount negative. The result is rounded to cents.
func Parse(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	digits := 0
	seenDecimal := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == ',':
			if seenDecimal {
				return decimal.Zero, fmt.Errorf("%w: %q has more than one decimal comma", ErrInvalidAmount, value)
			}
			seenDecimal = true
			b.WriteRune('.')
		case r == '-':
			if digits > 0 || negative {
				return decimal.Zero, fmt.Errorf("%w: misplaced minus in %q", ErrInvalidAmount, value)
			}
			negative = true
		case r == '.', r == ' ', r == '\u00a0', r == '\u202f', r == '\'':
			// thousands separators
		case strings.ContainsRune(Symbol, r):
		default:
			return decimal.Zero, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidAmount, r, value)
		}
	}
	if digits == 0 {
		return decimal.Zero, fmt.Errorf("%w: no digits in %q", ErrInvalidAmount, value)
	}

	str := b.String()
	if strings.HasPrefix(str, ".") {
		str = "0" + str
	}
	if strings.HasSuffix(str, ".") {
		str += "0"
	}

	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, value, err)
	}
	if negative {
		d = d.Neg()
	}
	return Round(d), nil
}

// FromFloat converts a numeric cell value, rounded to cents
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

var half = decimal.New(5, -1)

// Round rounds to cents, halves up towards positive infinity: 0,005 becomes
// 0,01 and -0,005 becomes 0,00.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Shift(precision).Add(half).Floor().Shift(-precision)
}

// Format renders an amount as "1 234,56 €". Parse(Format(x)) returns x for
// every amount with at most two decimals.
func Format(d decimal.Decimal) string {
	d = Round(d)
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(precision)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteRune(r)
	}
	b.WriteString(decimalSeparator)
	b.WriteString(fracPart)
	b.WriteString(" ")
	b.WriteString(Symbol)
	return b.String()
}

// Normalize parses a sheet amount and formats it again
func Normalize(value string) (string, error) {
	d, err := Parse(value)
	if err != nil {
		return "", err
	}
	return Format(d), nil
}
