// Package format provides common display-formatting helpers for ARQV30.
package format

import (
	"fmt"
	"math"
	"strings"
)

// FormatBRL formats a number in Brazilian Real format (R$ 1.234.567,89).
// Thousands are separated with "." and decimals with ",".
func FormatBRL(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	cents := int64(math.Round((amount - float64(intPart)) * 100))
	if cents == 100 {
		intPart++
		cents = 0
	}

	formatted := fmt.Sprintf("%s,%02d", groupThousands(intPart), cents)

	if negative {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// FormatBRLCompact formats a number in compact Brazilian notation.
// e.g., 3200000000 → "R$ 3,2 bilhões", 450000000 → "R$ 450 milhões"
func FormatBRLCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "R$ "
	if negative {
		prefix = "-R$ "
	}

	switch {
	case amount >= 1e9:
		return fmt.Sprintf("%s%s bilhões", prefix, formatWithDecimals(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%s milhões", prefix, formatWithDecimals(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%s mil", prefix, formatWithDecimals(amount/1e3))
	default:
		return prefix + formatWithDecimals(amount)
	}
}

// FormatInt formats an integer with Brazilian "." thousands grouping.
func FormatInt(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

// FormatPct formats a percentage value with one decimal and % suffix.
// e.g., 2.45 → "2,5%"
func FormatPct(pct float64) string {
	return strings.Replace(fmt.Sprintf("%.1f%%", pct), ".", ",", 1)
}

// groupThousands formats an integer with "." thousands grouping.
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ".")
}

// formatWithDecimals formats a number with up to 1 decimal place using a
// Brazilian decimal comma, removing a trailing ",0".
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.1f", n)
	s = strings.TrimSuffix(s, ".0")
	return strings.Replace(s, ".", ",", 1)
}
