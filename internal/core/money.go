// Package core provides the domain model for the ledger: transactions,
// money parsing and formatting, and the balance and category aggregators.
//
// This file contains money parsing, currency symbol lookup, and display
// formatting. Amounts are held as int64 cents; the JSON wire form is a
// plain decimal number of currency units.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// currencySymbols is the fixed, enumerated symbol table. There is no
// conversion between currencies; the active code only changes the symbol.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"INR": "₹",
	"GBP": "£",
	"JPY": "¥",
}

// DefaultCurrency is used when no currency has been persisted yet.
const DefaultCurrency = "USD"

// CurrencySymbol returns the display symbol for a currency code.
func CurrencySymbol(code string) (string, bool) {
	sym, ok := currencySymbols[code]
	return sym, ok
}

// ValidCurrency reports whether code is one of the enumerated currencies.
func ValidCurrency(code string) bool {
	_, ok := currencySymbols[code]
	return ok
}

// CurrencyCodes returns the enumerated currency codes in stable order.
func CurrencyCodes() []string {
	return []string{"USD", "EUR", "GBP", "INR", "JPY"}
}

// FormatMoney renders an amount under the given currency code as
// "<symbol><magnitude to 2 decimal places>". The sign is never shown;
// sign presentation is the caller's responsibility. Unknown codes fall
// back to the bare code as prefix so display never fails mid-render;
// codes are validated at the currency-change boundary instead.
func FormatMoney(code string, m Money) string {
	sym, ok := currencySymbols[code]
	if !ok {
		sym = code
	}
	cents := abs64(m.Cents)
	return fmt.Sprintf("%s%d.%02d", sym, cents/100, cents%100)
}

// ParseSignedDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and comma
// (12,34) separators and an optional leading sign. Returns ErrInvalidAmount
// for anything that does not parse as a decimal number, so malformed input
// is rejected at the boundary instead of propagating into sums.
//
// Examples:
//
//	ParseSignedDecimalToCents("12.34")  -> 1234, nil
//	ParseSignedDecimalToCents("-12,34") -> -1234, nil
//	ParseSignedDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseSignedDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	// Guard the final cents value so iv*100+fracCents cannot wrap.
	const maxInt64 = 1<<63 - 1
	if iv > (maxInt64-fracCents)/100 {
		return 0, ErrInvalidAmount
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Units returns the amount as a float64 number of currency units. Chart
// series are fed from this; use cents for any arithmetic.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON encodes the amount as a decimal number of units, matching
// the persisted blob format.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Units(), 'f', -1, 64)), nil
}

// UnmarshalJSON decodes a decimal number of units into cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if cents, err := ParseSignedDecimalToCents(s); err == nil {
		m.Cents = cents
		return nil
	}
	// Exponent forms and other float spellings valid in JSON.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, ErrInvalidAmount)
	}
	m.Cents = int64(math.Round(f * 100))
	return nil
}
