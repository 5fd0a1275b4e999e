package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tradebook/pricing"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	raw bool

	out io.Writer
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the test price of shares" }
func (*quoteCmd) Usage() string {
	return `tbk quote [-raw] [<symbol>...]

  Prints the price used by 'replay -test-prices' for each symbol, or for all
  supported symbols when none is given.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prices := pricing.NewTestPrices()
	symbols := f.Args()
	if len(symbols) == 0 {
		symbols = prices.Symbols()
	}

	var b strings.Builder
	b.WriteString("## Quotes\n\n| Symbol | Price |\n|:---|---:|\n")
	for _, sym := range symbols {
		px, err := prices.SharePrice(sym)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(&b, "| %s | %s |\n", strings.ToUpper(strings.TrimSpace(sym)), px.StringFixed(2))
	}
	printMarkdown(output(c.out), b.String(), c.raw)
	return subcommands.ExitSuccess
}
