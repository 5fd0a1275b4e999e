// Package fills records execution confirmations of a brokerage into a ledger.
//
// A confirmation is a JSON document whose layout depends on the broker. A
// Decoder holds one JSONPath expression per field of a Fill and extracts them
// from each document. Numbers are kept as they were sent, JSON numbers or
// strings, and are normalized and quantized by the ledger.
package fills

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tradebook"
)

// ErrUnknownSide is returned for a fill that is neither a buy nor a sell.
var ErrUnknownSide = errors.New("unknown fill side")

// Side of an execution.
type Side string

// Fill sides.
const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Fill is an executed order.
type Fill struct {
	Account  string
	Symbol   string
	Side     Side
	Quantity tradebook.Number
	Price    tradebook.Number
}

// Record records f into ledger as a BUY or a SELL.
func (f Fill) Record(ledger *tradebook.Ledger) (tradebook.TransactionRecord, error) {
	switch f.Side {
	case SideBuy:
		return ledger.RecordBuy(f.Account, f.Symbol, f.Quantity, f.Price)
	case SideSell:
		return ledger.RecordSell(f.Account, f.Symbol, f.Quantity, f.Price)
	default:
		return tradebook.TransactionRecord{}, fmt.Errorf("%w: %q", ErrUnknownSide, f.Side)
	}
}

// Decoder extracts fills from JSON documents.
type Decoder struct {
	Account  string // JSONPath of the account id
	Symbol   string // JSONPath of the symbol
	Side     string // JSONPath of the side, "buy" or "sell" in any case
	Quantity string // JSONPath of the filled quantity
	Price    string // JSONPath of the average fill price
}

// DefaultDecoder reads flat documents like
//
//	{"account":"a1","symbol":"AAPL","side":"buy","filled_qty":"10","filled_avg_price":"150.25"}
var DefaultDecoder = Decoder{
	Account:  "$.account",
	Symbol:   "$.symbol",
	Side:     "$.side",
	Quantity: "$.filled_qty",
	Price:    "$.filled_avg_price",
}

// Decode extracts a fill from a JSON document.
func (d Decoder) Decode(data []byte) (Fill, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep numbers exact
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return Fill{}, fmt.Errorf("could not decode fill: %w", err)
	}

	var f Fill
	var err error
	if f.Account, err = text(jobj, d.Account); err != nil {
		return Fill{}, err
	}
	if f.Symbol, err = text(jobj, d.Symbol); err != nil {
		return Fill{}, err
	}
	side, err := text(jobj, d.Side)
	if err != nil {
		return Fill{}, err
	}
	switch s := Side(strings.ToLower(strings.TrimSpace(side))); s {
	case SideBuy, SideSell:
		f.Side = s
	default:
		return Fill{}, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	if f.Quantity, err = number(jobj, d.Quantity); err != nil {
		return Fill{}, err
	}
	if f.Price, err = number(jobj, d.Price); err != nil {
		return Fill{}, err
	}
	return f, nil
}

// get evaluates path on jobj and returns a single value.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// jsonpath returns a list for wildcard and slice expressions: keep the
	// first answer if any.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("error evaluating %q: no value", path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

func text(jobj any, path string) (string, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return "", err
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("error evaluating %q: not a string: %v", path, jval)
	}
}

// number converts the value at path to a Number without losing digits. Values
// that are not numbers give an empty Number, rejected by the ledger.
func number(jobj any, path string) (tradebook.Number, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return tradebook.Number{}, err
	}
	switch v := jval.(type) {
	case json.Number:
		return tradebook.Text(v.String()), nil
	case string:
		return tradebook.Text(v), nil
	case float64:
		return tradebook.Float(v), nil
	case int:
		return tradebook.Int(int64(v)), nil
	default:
		return tradebook.Number{}, nil
	}
}
