package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/tradebook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "tbk")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Shell completion, active when COMP_LINE is set.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"replay": {Flags: map[string]complete.Predictor{
				"f":           predict.Files("*.jsonl"),
				"format":      predict.Set{"markdown", "jsonl"},
				"c":           predict.Set{"USD", "EUR", "GBP", "JPY", "CHF"},
				"raw":         predict.Nothing,
				"test-prices": predict.Nothing,
				"k":           predict.Nothing,
				"v":           predict.Nothing,
			}},
			"fill": {Flags: map[string]complete.Predictor{
				"f":     predict.Files("*.jsonl"),
				"raw":   predict.Nothing,
				"jsonl": predict.Nothing,
				"v":     predict.Nothing,
			}},
			"quote": {Args: predict.Set{"AAPL", "GOOGL", "TSLA"}},
			"topic": {Args: predict.Set{"replay", "fill", "precision", "config", "*"}},
			"help":  {},
			"flags": {},
		},
	}
	completion.Complete("tbk")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
