package phpeso

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₱0.00"},
		{5, "₱5.00"},
		{999.9, "₱999.90"},
		{1000, "₱1,000.00"},
		{1234567.89, "₱1,234,567.89"},
		{100000000, "₱100,000,000.00"},
		{1234567.891, "₱1,234,567.89"},
		{-4500.5, "₱-4,500.50"},
	}

	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
