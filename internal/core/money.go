// Package core holds the domain types shared by the budget engine.
//
// This file contains money parsing and formatting. Amounts are integer öre
// internally; conversion to kronor happens only at display boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in öre (hundredths of a krona). Signed: negative means
// outflow, positive inflow.
type Money struct {
	Ore int64
}

// ParseDecimalToOre converts a decimal string to öre with half-up rounding
// on the third decimal place. Both comma (12,34) and dot (12.34) separators
// are accepted, and a leading minus sign is allowed since bank amounts are
// signed.
//
// Examples:
//
//	ParseDecimalToOre("12,34")  -> 1234, nil
//	ParseDecimalToOre("-12.34") -> -1234, nil
//	ParseDecimalToOre("12.346") -> 1235, nil (rounds up)
func ParseDecimalToOre(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
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
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracOre int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracOre = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracOre += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracOre++
			}
		}
	}
	ore := iv*100 + fracOre
	if neg {
		ore = -ore
	}
	return ore, nil
}

// Kronor returns the krona value as a float64 for display purposes.
// Use öre for calculations to avoid floating-point precision issues.
func (m Money) Kronor() float64 {
	return float64(m.Ore) / 100.0
}

// Validate rejects non-positive amounts. It applies to budgeted figures
// (item amounts, goal targets); transaction amounts stay signed and are not
// validated through here.
func (m Money) Validate() error {
	if m.Ore <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// FormatKronor formats öre as a Swedish currency string (e.g. "12,34 kr").
func FormatKronor(ore int64) string {
	neg := ore < 0
	if neg {
		ore = -ore
	}
	kronor := ore / 100
	rem := ore % 100
	s := strconv.FormatInt(kronor, 10) + "," + fmt.Sprintf("%02d", rem) + " kr"
	if neg {
		return "-" + s
	}
	return s
}
