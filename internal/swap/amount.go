package swap

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrEmptyAmount means no amount was entered; callers skip the request.
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrInvalidAmount wraps every other amount parse failure.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseUnits converts a decimal string such as "1.5" into base units for a
// token with the given decimals.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, ErrEmptyAmount
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, amount)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if !digits(whole) || !digits(frac) {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, amount)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, amount, decimals)
	}

	frac += strings.Repeat("0", decimals-len(frac))
	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return out, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatUnits renders base units as an exact decimal string with trailing
// zeros trimmed: 1500000 with 6 decimals is "1.5".
func FormatUnits(raw *big.Int, decimals int) string {
	if raw == nil {
		return ""
	}
	neg := raw.Sign() < 0
	s := new(big.Int).Abs(raw).String()

	d := max(decimals, 0)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatBaseUnits is FormatUnits for amounts the API returns as decimal
// strings. Unparseable input is returned unchanged.
func FormatBaseUnits(raw string, decimals int) string {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return raw
	}
	return FormatUnits(n, decimals)
}

// FormatTax renders a basis-point rate as a percentage with two decimals:
// "150" becomes "1.50".
func FormatTax(bps string) string {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(bps))
	if !ok {
		return ""
	}
	return r.Quo(r, big.NewRat(100, 1)).FloatString(2)
}

// HasTax reports whether a bps value should be shown at all.
func HasTax(bps string) bool {
	bps = strings.TrimSpace(bps)
	return bps != "" && bps != "0"
}
