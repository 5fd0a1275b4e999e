package tradebook

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Number
		want    string
		wantErr error
	}{
		{name: "int", in: Int(42), want: "42"},
		{name: "negative int", in: Int(-7), want: "-7"},
		{name: "float shortest form", in: Float(0.1), want: "0.1"},
		{name: "float with many digits", in: Float(100.005), want: "100.005"},
		{name: "text", in: Text("0.123456789"), want: "0.123456789"},
		{name: "text with spaces", in: Text("  12.50 "), want: "12.5"},
		{name: "text exponent", in: Text("1e-3"), want: "0.001"},
		{name: "decimal", in: Dec(d("3.14159")), want: "3.14159"},
		{name: "zero is a number", in: Text("0"), want: "0"},
		{name: "no value", in: Number{}, wantErr: ErrInvalidValueType},
		{name: "float NaN", in: Float(math.NaN()), wantErr: ErrNonFiniteValue},
		{name: "float +Inf", in: Float(math.Inf(1)), wantErr: ErrNonFiniteValue},
		{name: "float -Inf", in: Float(math.Inf(-1)), wantErr: ErrNonFiniteValue},
		{name: "text NaN", in: Text("NaN"), wantErr: ErrNonFiniteValue},
		{name: "text infinity", in: Text("-Infinity"), wantErr: ErrNonFiniteValue},
		{name: "text inf", in: Text("inf"), wantErr: ErrNonFiniteValue},
		{name: "text garbage", in: Text("12,5"), wantErr: ErrInvalidValueFormat},
		{name: "empty text", in: Text(""), wantErr: ErrInvalidValueFormat},
		{name: "blank text", in: Text("   "), wantErr: ErrInvalidValueFormat},
		{name: "huge exponent", in: Text("1e20000000"), wantErr: ErrInvalidValueFormat},
		{name: "tiny exponent", in: Text("1e-20000000"), wantErr: ErrInvalidValueFormat},
		{name: "huge exponent decimal", in: Dec(decimal.New(1, 20000000)), wantErr: ErrInvalidValueFormat},
		{name: "zero with tiny exponent", in: Text("0e-20000000"), want: "0"},
		{name: "largest exponent", in: Text("9.5e999999"), want: "9.5e999999"},
		{name: "smallest exponent", in: Text("1e-999999"), want: "1e-999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize(%v) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%v) unexpected error: %v", tt.in, err)
			}
			assertDecimal(t, "Normalize()", got, tt.want)
		})
	}
}

func TestN(t *testing.T) {
	tests := []struct {
		name string
		in   Number
		want string
	}{
		{"int", N(3), "3"},
		{"int32", N(int32(-3)), "-3"},
		{"uint64 max", N(uint64(math.MaxUint64)), "18446744073709551615"},
		{"float32", N(float32(0.1)), "0.1"},
		{"float64", N(2.5), "2.5"},
		{"string", N("7.25"), "7.25"},
		{"decimal", N(decimal.New(15, -1)), "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%v) unexpected error: %v", tt.in, err)
			}
			assertDecimal(t, "Normalize()", got, tt.want)
		})
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var v struct {
		Number   Number `json:"number"`
		Text     Number `json:"text"`
		Bool     Number `json:"bool"`
		Null     Number `json:"null"`
		Missing  Number `json:"missing"`
		Negative Number `json:"negative"`
	}
	data := `{"number":100.0050,"text":" 0.1 ","bool":true,"null":null,"negative":-2e-2}`
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// JSON numbers keep their literal.
	if got := v.Number.String(); got != "100.0050" {
		t.Errorf("number = %q, want %q", got, "100.0050")
	}
	assertDecimal(t, "text", must(Normalize(v.Text)), "0.1")
	assertDecimal(t, "negative", must(Normalize(v.Negative)), "-0.02")
	for name, n := range map[string]Number{"bool": v.Bool, "null": v.Null, "missing": v.Missing} {
		if !n.IsZero() {
			t.Errorf("%s = %v, want an empty Number", name, n)
		}
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	got, err := json.Marshal([]Number{Int(1), Text("0.10"), {}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `["1","0.10",null]`; string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
