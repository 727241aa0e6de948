package format

import (
	"strconv"
	"strings"
)

// ParseAmount extracts a numeric value from a display string such as
// "R$ 1.200,00" (→ 1200) or "3,5%" (→ 3.5). It strips everything except
// digits and separators and treats a trailing comma-group as decimals.
// This is a best-effort heuristic, not exact currency parsing; when
// nothing parsable remains, fallback is returned.
func ParseAmount(s string, fallback float64) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return fallback
	}

	// Brazilian convention: "." groups thousands, "," marks decimals.
	// A lone "." with no "," is kept as a decimal point only when it
	// looks like one (at most two digits after it).
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
		// Extra commas were group separators in disguise; drop them.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else if dot := strings.LastIndex(cleaned, "."); dot >= 0 {
		if len(cleaned)-dot-1 > 2 || strings.Count(cleaned, ".") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fallback
	}
	return v
}
