package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/pricing"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type replayCmd struct {
	file       string
	format     string
	currency   string
	raw        bool
	testPrices bool
	keepGoing  bool
	verbose    bool

	out io.Writer // defaults to stdout
}

func (*replayCmd) Name() string     { return "replay" }
func (*replayCmd) Synopsis() string { return "replay instructions and report the resulting ledger" }
func (*replayCmd) Usage() string {
	return `tbk replay [-f <file>] [-format markdown|jsonl] [-c <currency>] [-test-prices] [-k]

  Reads JSONL instructions (open, deposit, withdraw, buy, sell), records them
  in an in-memory ledger and prints the accounts, holdings and transactions.

  Example instructions:
    {"command":"open","account":"alice","amount":"1000"}
    {"command":"buy","account":"alice","symbol":"aapl","quantity":2,"price":"150.005"}
`
}

func (c *replayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "Instructions file (JSONL), - for standard input")
	f.StringVar(&c.format, "format", "markdown", "Output format: markdown or jsonl (transactions only)")
	f.StringVar(&c.currency, "c", "", "Currency of the accounts, overrides TBK_CURRENCY")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
	f.BoolVar(&c.testPrices, "test-prices", false, "Price trades without a price using the test price table")
	f.BoolVar(&c.keepGoing, "k", false, "Keep going after a rejected instruction")
	f.BoolVar(&c.verbose, "v", false, "Log every transaction")
}

func (c *replayCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "markdown" && c.format != "jsonl" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	instructions, err := decodeInstructionsFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading instructions: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := newApp(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if c.currency != "" {
		a.cfg.Currency = c.currency
	}

	store := tradebook.NewStore()
	dir := tradebook.NewAccountDirectory(store)
	ledger, err := tradebook.NewLedger(a.ledgerOptions(tradebook.WithStore(store), tradebook.WithAccounts(dir))...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	var quoter pricing.Quoter
	if c.testPrices {
		quoter = pricing.NewTestPrices()
	}

	status := subcommands.ExitSuccess
	for _, in := range instructions {
		if err := replay(in, dir, ledger, quoter); err != nil {
			fmt.Fprintf(os.Stderr, "Error on line %d: %v\n", in.Line, err)
			status = subcommands.ExitFailure
			if !c.keepGoing {
				return status
			}
		}
	}

	records, err := ledger.Transactions(tradebook.Filter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	w := output(c.out)
	if c.format == "jsonl" {
		if err := tradebook.EncodeRecords(w, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		return status
	}

	fmtr := amountFormatter{currency: ledger.Currency()}
	accounts := store.Accounts()
	ids := make([]string, 0, len(accounts))
	positions := make(map[string]map[string]decimal.Decimal, len(accounts))
	for _, acc := range accounts {
		ids = append(ids, acc.ID)
		h, err := store.Holdings(acc.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading holdings of %q: %v\n", acc.ID, err)
			return subcommands.ExitFailure
		}
		positions[acc.ID] = h
	}

	md := accountsMarkdown(accounts, fmtr) + holdingsMarkdown(ids, positions) + transactionsMarkdown(records, fmtr)
	printMarkdown(w, md, c.raw)
	return status
}

// replay applies one instruction, pricing trades without a price with quoter
// when there is one.
func replay(in tradebook.Instruction, dir *tradebook.AccountDirectory, ledger *tradebook.Ledger, quoter pricing.Quoter) error {
	isTrade := in.Command == tradebook.CmdBuy || in.Command == tradebook.CmdSell
	if isTrade && in.Price.IsZero() && quoter != nil {
		px, err := quoter.SharePrice(in.Symbol)
		if err != nil {
			return err
		}
		in.Price = tradebook.Dec(px)
	}
	_, err := in.Apply(dir, ledger)
	return err
}

// decodeInstructionsFile reads instructions from filename, "-" being the
// standard input.
func decodeInstructionsFile(filename string) ([]tradebook.Instruction, error) {
	if filename == "-" || filename == "" {
		return tradebook.DecodeInstructions(os.Stdin)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tradebook.DecodeInstructions(f)
}
