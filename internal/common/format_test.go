package common

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0}, // binary representation of 1.005 sits just below
		{2.675, 2.67},
		{1.239, 1.24},
		{-1.555, -1.55},
		{0, 0},
		{100.0, 100.0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.4e12, "$3.40T"},
		{850e9, "$850.00B"},
		{42e6, "$42.00M"},
	}
	for _, tt := range tests {
		if got := FormatMarketCap(tt.in); got != tt.want {
			t.Errorf("FormatMarketCap(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567.89, "$1,234,567.89"},
		{999.5, "$999.50"},
		{-1200.25, "-$1,200.25"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(26.4); got != "+26.40%" {
		t.Errorf("got %q, want +26.40%%", got)
	}
	if got := FormatSignedPct(-3.2); got != "-3.20%" {
		t.Errorf("got %q, want -3.20%%", got)
	}
}
