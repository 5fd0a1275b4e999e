package tradebook

import (
	"errors"
	"testing"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"0.005", 2, "0.01"},
		{"-0.005", 2, "-0.01"},
		{"0.004", 2, "0"},
		{"100.005", 2, "100.01"},
		{"12.3469235679", 2, "12.35"},
		{"0.123456789", 8, "0.12345679"},
		{"0.5", 0, "1"},
		{"2.5", 0, "3"},
		{"-2.5", 0, "-3"},
		{"1.234", 2, "1.23"},
		{"7", 2, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q := Quantize(d(tt.in), tt.places)
			assertDecimal(t, "Quantize()", q, tt.want)
			assertDecimal(t, "Quantize(Quantize())", Quantize(q, tt.places), tt.want)
		})
	}
}

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "2", want: 2},
		{in: " 8 ", want: 8},
		{in: "-1", wantErr: true},
		{in: "2.5", wantErr: true},
		{in: "two", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrecision(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Fatalf("ParsePrecision(%q) error = %v, want %v", tt.in, err, ErrInvalidConfiguration)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrecision(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrecision(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
