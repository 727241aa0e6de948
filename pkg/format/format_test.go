package format

import "testing"

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "R$ 0,00"},
		{100, "R$ 100,00"},
		{1000, "R$ 1.000,00"},
		{997, "R$ 997,00"},
		{12345, "R$ 12.345,00"},
		{1234567, "R$ 1.234.567,00"},
		{2847.50, "R$ 2.847,50"},
		{1199.99, "R$ 1.199,99"},
		{-1234.56, "-R$ 1.234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBRL(tt.input)
			if result != tt.expected {
				t.Errorf("FormatBRL(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatBRLCompact(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{500, "R$ 500"},
		{12000, "R$ 12 mil"},
		{450000000, "R$ 450 milhões"},
		{3200000000, "R$ 3,2 bilhões"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBRLCompact(tt.input)
			if result != tt.expected {
				t.Errorf("FormatBRLCompact(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.45, "2,5%"},
		{-1.23, "-1,2%"},
		{0.0, "0,0%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatPct(tt.input)
			if result != tt.expected {
				t.Errorf("FormatPct(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"taxa_conversao", "Taxa Conversao"},
		{"cac_medio_segmento", "Cac Medio Segmento"},
		{"ticket-medio", "Ticket Medio"},
		{"roi", "Roi"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Humanize(tt.input)
			if result != tt.expected {
				t.Errorf("Humanize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		fallback float64
		expected float64
	}{
		{"R$ 1.200,00", 0, 1200},
		{"R$ 997", 0, 997},
		{"R$ 3,20", 0, 3.2},
		{"R$ 1.680", 0, 1680},
		{"3,5%", 0, 3.5},
		{"380%", 0, 380},
		{"12.100", 0, 12100},
		{"42.5", 0, 42.5},
		{"sem valor", 997, 997},
		{"", 997, 997},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseAmount(tt.input, tt.fallback)
			if result != tt.expected {
				t.Errorf("ParseAmount(%q) = %f, want %f", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback(""); got != "N/A" {
		t.Errorf("Fallback(\"\") = %q, want N/A", got)
	}
	if got := Fallback("   "); got != "N/A" {
		t.Errorf("Fallback(blank) = %q, want N/A", got)
	}
	if got := Fallback("valor"); got != "valor" {
		t.Errorf("Fallback(valor) = %q, want valor", got)
	}
}
