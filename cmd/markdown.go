package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradebook"
	"github.com/shopspring/decimal"
)

// printMarkdown renders md for the terminal, or writes it unchanged when raw
// is set or when rendering fails.
func printMarkdown(w io.Writer, md string, raw bool) {
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			} else {
				fmt.Fprintf(os.Stderr, "Warning: could not render markdown: %v\n", err)
			}
		}
	}
	fmt.Fprint(w, md)
}

// amountFormatter prints decimals, using the currency symbol for amounts that
// fit in its minor unit.
type amountFormatter struct {
	currency string
}

func (f amountFormatter) format(d decimal.Decimal) string {
	cur := money.GetCurrency(f.currency)
	if cur == nil || !d.Equal(d.Round(int32(cur.Fraction))) {
		return d.String()
	}
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).IntPart())
}

// accountsMarkdown renders the accounts with their balance.
func accountsMarkdown(accounts []tradebook.AccountSnapshot, f amountFormatter) string {
	var b strings.Builder
	b.WriteString("## Accounts\n\n")
	if len(accounts) == 0 {
		b.WriteString("No accounts.\n\n")
		return b.String()
	}
	b.WriteString("| Account | Balance |\n|:---|---:|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s |\n", a.ID, f.format(a.Balance))
	}
	b.WriteString("\n")
	return b.String()
}

// holdingsMarkdown renders the positions of each account, symbols sorted.
func holdingsMarkdown(accounts []string, holdings map[string]map[string]decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("## Holdings\n\n")
	rows := 0
	for _, acc := range accounts {
		rows += len(holdings[acc])
	}
	if rows == 0 {
		b.WriteString("No holdings.\n\n")
		return b.String()
	}
	b.WriteString("| Account | Symbol | Quantity |\n|:---|:---|---:|\n")
	for _, acc := range accounts {
		positions := holdings[acc]
		symbols := make([]string, 0, len(positions))
		for sym := range positions {
			symbols = append(symbols, sym)
		}
		slices.Sort(symbols)
		for _, sym := range symbols {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", acc, sym, positions[sym].String())
		}
	}
	b.WriteString("\n")
	return b.String()
}

// transactionsMarkdown renders records in log order.
func transactionsMarkdown(records []tradebook.TransactionRecord, f amountFormatter) string {
	var b strings.Builder
	b.WriteString("## Transactions\n\n")
	if len(records) == 0 {
		b.WriteString("No transactions.\n\n")
		return b.String()
	}
	b.WriteString("| Time | Account | Kind | Symbol | Quantity | Price | Total | Amount |\n")
	b.WriteString("|:---|:---|:---|:---|---:|---:|---:|---:|\n")
	for _, r := range records {
		sym, _ := r.Symbol()
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Timestamp().Format(time.DateTime),
			r.AccountID(),
			r.Kind(),
			sym,
			optionalCell(r.Quantity()),
			optionalAmount(f, r.Price),
			optionalAmount(f, r.Total),
			f.format(r.Amount()),
		)
	}
	b.WriteString("\n")
	return b.String()
}

func optionalCell(d decimal.Decimal, ok bool) string {
	if !ok {
		return ""
	}
	return d.String()
}

func optionalAmount(f amountFormatter, get func() (decimal.Decimal, bool)) string {
	d, ok := get()
	if !ok {
		return ""
	}
	return f.format(d)
}
