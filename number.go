package tradebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numberKind identifies which representation a Number was built from.
type numberKind uint8

const (
	noNumber numberKind = iota
	intNumber
	floatNumber
	textNumber
	decimalNumber
)

// Number is a raw numeric input as received from a caller or an upstream feed.
//
// It is a closed set of representations: an integer, a binary float, a decimal
// literal or an already exact decimal. The zero Number holds none of them and
// is rejected by Normalize. Numbers are turned into exact values by Normalize,
// never implicitly.
type Number struct {
	kind numberKind
	i    int64
	f    float64
	s    string
	d    decimal.Decimal
}

// Int returns a Number holding an integer.
func Int(v int64) Number { return Number{kind: intNumber, i: v} }

// Float returns a Number holding a binary float. It is converted using its
// shortest decimal representation, so 0.1 stays 0.1.
func Float(v float64) Number { return Number{kind: floatNumber, f: v} }

// Text returns a Number holding a base-10 literal like "100.005" or "1e-3".
func Text(v string) Number { return Number{kind: textNumber, s: v} }

// Dec returns a Number holding an exact decimal.
func Dec(v decimal.Decimal) Number { return Number{kind: decimalNumber, d: v} }

// N is a convenient factory for Number.
func N[T int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | string | decimal.Decimal](value T) Number {
	switch v := any(value).(type) {
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Dec(decimal.NewFromUint64(uint64(v)))
	case uint32:
		return Int(int64(v))
	case uint64:
		return Dec(decimal.NewFromUint64(v))
	case float32:
		// FormatFloat with bitSize 32 keeps the float32 shortest form.
		return Text(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		return Float(v)
	case string:
		return Text(v)
	case decimal.Decimal:
		return Dec(v)
	default:
		panic("unsupported type")
	}
}

// IsZero reports whether n holds no value at all.
func (n Number) IsZero() bool { return n.kind == noNumber }

func (n Number) String() string {
	switch n.kind {
	case intNumber:
		return strconv.FormatInt(n.i, 10)
	case floatNumber:
		return strconv.FormatFloat(n.f, 'f', -1, 64)
	case textNumber:
		return n.s
	case decimalNumber:
		return n.d.String()
	default:
		return "<none>"
	}
}

// Normalize converts n into an exact decimal. No rounding is applied.
func Normalize(n Number) (decimal.Decimal, error) {
	switch n.kind {
	case intNumber:
		return decimal.NewFromInt(n.i), nil
	case floatNumber:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return decimal.Zero, ErrNonFiniteValue
		}
		return parseDecimal(strconv.FormatFloat(n.f, 'f', -1, 64))
	case textNumber:
		return parseDecimal(n.s)
	case decimalNumber:
		return checkExponent(n.d)
	default:
		return decimal.Zero, ErrInvalidValueType
	}
}

// maxExponent bounds the adjusted exponent of accepted values, both ways.
// Rounding or adding a value costs in proportion to 10^|exponent|.
const maxExponent = 999999

// checkExponent rejects values whose magnitude is out of bounds, like
// "1e20000000" or "1e-20000000".
func checkExponent(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	exp := int64(d.Exponent())
	adjusted := exp + int64(d.NumDigits()) - 1
	if exp < -maxExponent || adjusted > maxExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent out of range [-%d, %d]", ErrInvalidValueFormat, maxExponent, maxExponent)
	}
	return d, nil
}

// parseDecimal parses a trimmed base-10 literal.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if isNonFinite(s) {
		return decimal.Zero, ErrNonFiniteValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidValueFormat, s)
	}
	return checkExponent(d)
}

// isNonFinite recognizes the spellings of NaN and infinities.
func isNonFinite(s string) bool {
	s = strings.ToLower(strings.TrimLeft(s, "+-"))
	switch s {
	case "nan", "snan", "inf", "infinity":
		return true
	}
	return false
}

// UnmarshalJSON accepts a JSON number, kept as its exact literal, or a JSON
// string. Any other JSON value leaves n empty.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = Number{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Text(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*n = Text(string(data))
	default:
		*n = Number{}
	}
	return nil
}

// MarshalJSON writes n as a JSON string holding its literal.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(n.String())
}
