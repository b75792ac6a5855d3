package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"stockledger/internal/report"

	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string             { return "list" }
func (*listCmd) Synopsis() string         { return "list lots, one per line" }
func (*listCmd) Usage() string            { return "stocks list [<symbol>...]\n" }
func (*listCmd) SetFlags(_ *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	symbols := f.Args()
	if len(symbols) == 0 {
		symbols = s.ledger.Symbols()
	}
	for _, sym := range symbols {
		for _, lot := range s.ledger.Lots(sym) {
			fmt.Printf("%-8s %8d %12.4f %s\n", lot.Symbol, lot.Amount, lot.Price, time.Unix(lot.AcquiredAt, 0).Format(time.DateOnly))
		}
	}
	return subcommands.ExitSuccess
}

type profitCmd struct{}

func (*profitCmd) Name() string             { return "profit" }
func (*profitCmd) Synopsis() string         { return "print the profit of a symbol or of the whole portfolio" }
func (*profitCmd) Usage() string            { return "stocks profit [<symbol>]\n" }
func (*profitCmd) SetFlags(_ *flag.FlagSet) {}

func (c *profitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	var profit float64
	if f.NArg() == 1 {
		profit, err = s.ledger.ProfitFor(ctx, f.Arg(0))
	} else {
		profit, err = s.ledger.TotalProfit(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing profit: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%.4f\n", profit)
	return subcommands.ExitSuccess
}

type reportCmd struct{}

func (*reportCmd) Name() string             { return "report" }
func (*reportCmd) Synopsis() string         { return "display holdings with cost, value and profit" }
func (*reportCmd) Usage() string            { return "stocks report\n" }
func (*reportCmd) SetFlags(_ *flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	printMarkdown(report.Build(ctx, s.ledger).Markdown())
	return subcommands.ExitSuccess
}
