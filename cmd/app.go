// Package cmd implements the CLI application to replay and inspect a trading
// ledger.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/config"
	"github.com/etnz/tradebook/events"
	"github.com/etnz/tradebook/events/kafka"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&replayCmd{}, "ledger")
	c.Register(&fillCmd{}, "ledger")
	c.Register(&quoteCmd{}, "pricing")
	c.Register(&topicCmd{}, "help")
}

// output returns w, or the standard output if w is nil.
func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// app holds what a subcommand needs to record transactions. It is built from
// the environment settings (see config.Load) and closed at the end of the
// command.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	publisher *kafka.Publisher
}

func newApp(verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	a := &app{cfg: cfg, logger: newLogger(cfg.LogLevel)}
	if len(cfg.KafkaBrokers) > 0 {
		a.publisher = kafka.NewPublisher(cfg.KafkaBrokers)
	}
	return a, nil
}

// ledgerOptions returns the options of a ledger for this app, followed by
// extra.
func (a *app) ledgerOptions(extra ...tradebook.Option) []tradebook.Option {
	opts := a.cfg.LedgerOptions()
	opts = append(opts, tradebook.WithLogger(a.logger))
	if a.publisher != nil {
		opts = append(opts, tradebook.WithObserver(events.Observer(a.publisher, a.cfg.KafkaTopic, a.logger)))
	}
	return append(opts, extra...)
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("unable to close publisher", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
