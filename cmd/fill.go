package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/fills"
	"github.com/google/subcommands"
)

// fillCmd records broker execution confirmations.
type fillCmd struct {
	file    string
	decoder fills.Decoder
	raw     bool
	jsonl   bool
	verbose bool

	out io.Writer
}

func (*fillCmd) Name() string     { return "fill" }
func (*fillCmd) Synopsis() string { return "record broker execution confirmations as trades" }
func (*fillCmd) Usage() string {
	return `tbk fill [-f <file>] [-account <path>] [-symbol <path>] [-side <path>] [-qty <path>] [-price <path>]

  Reads one JSON confirmation per line, extracts the fill with JSONPath
  expressions and records it as a BUY or a SELL. Accounts are not checked.

  Example confirmation with the default paths:
    {"account":"a1","symbol":"AAPL","side":"buy","filled_qty":"10","filled_avg_price":"150.25"}
`
}

func (c *fillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "Confirmations file (JSONL), - for standard input")
	f.StringVar(&c.decoder.Account, "account", fills.DefaultDecoder.Account, "JSONPath of the account id")
	f.StringVar(&c.decoder.Symbol, "symbol", fills.DefaultDecoder.Symbol, "JSONPath of the symbol")
	f.StringVar(&c.decoder.Side, "side", fills.DefaultDecoder.Side, "JSONPath of the side (buy or sell)")
	f.StringVar(&c.decoder.Quantity, "qty", fills.DefaultDecoder.Quantity, "JSONPath of the filled quantity")
	f.StringVar(&c.decoder.Price, "price", fills.DefaultDecoder.Price, "JSONPath of the average fill price")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
	f.BoolVar(&c.jsonl, "jsonl", false, "Print the recorded transactions as JSONL")
	f.BoolVar(&c.verbose, "v", false, "Log every transaction")
}

func (c *fillCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in io.Reader = os.Stdin
	if c.file != "-" && c.file != "" {
		f, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening confirmations: %v\n", err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		in = f
	}

	a, err := newApp(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ledger, err := tradebook.NewLedger(a.ledgerOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		doc := scanner.Bytes()
		if strings.TrimSpace(string(doc)) == "" {
			continue
		}
		fill, err := c.decoder.Decode(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error on line %d: %v\n", line, err)
			return subcommands.ExitFailure
		}
		if _, err := fill.Record(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error on line %d: %v\n", line, err)
			return subcommands.ExitFailure
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading confirmations: %v\n", err)
		return subcommands.ExitFailure
	}

	records, err := ledger.Transactions(tradebook.Filter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	w := output(c.out)
	if c.jsonl {
		if err := tradebook.EncodeRecords(w, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(w, transactionsMarkdown(records, amountFormatter{currency: ledger.Currency()}), c.raw)
	return subcommands.ExitSuccess
}
