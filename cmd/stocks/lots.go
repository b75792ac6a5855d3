package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"stockledger/internal/ledger"
	"stockledger/internal/models"

	"github.com/google/subcommands"
)

type addCmd struct {
	price float64
	epoch int64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a purchase of shares" }
func (*addCmd) Usage() string {
	return `stocks add [-price <p>] [-t <epoch>] <symbol> <amount>

  Adds a new lot. Without -price the current quote is used.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.price, "price", 0, "price paid per share")
	f.Int64Var(&c.epoch, "t", 0, "purchase time in epoch seconds (default now)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	amount, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	e, err := s.ledger.Add(ctx, f.Arg(0), amount, ledger.WithPrice(c.price), ledger.WithTimestamp(c.epoch))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding lot: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("added %d %s @ %.4f\n", e.Amount, e.Symbol, e.Price)
	return subcommands.ExitSuccess
}

type removeCmd struct {
	amount int64
	price  float64
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove shares of a symbol" }
func (*removeCmd) Usage() string {
	return `stocks remove [-amount <n> | -price <p>] <symbol>

  Without flags every share of the symbol is removed. -amount removes that many
  shares, oldest lots first. -price removes the lots bought at exactly that price.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.amount, "amount", 0, "number of shares to remove")
	f.Float64Var(&c.price, "price", 0, "remove lots bought at this price")
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	var opts []ledger.RemoveOption
	if flagSet(f, "amount") {
		opts = append(opts, ledger.ByAmount(c.amount))
	}
	if flagSet(f, "price") {
		opts = append(opts, ledger.ByPrice(c.price))
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	removed, err := s.ledger.Remove(ctx, f.Arg(0), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing shares: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("removed %d shares\n", removed)
	return subcommands.ExitSuccess
}

type setCmd struct {
	epoch int64
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "replace every lot of a symbol with one lot" }
func (*setCmd) Usage() string {
	return `stocks set [-t <epoch>] <symbol> <amount> <price>
`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.epoch, "t", 0, "purchase time in epoch seconds (default now)")
}

func (c *setCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	amount, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := strconv.ParseFloat(f.Arg(2), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.ledger.Set(ctx, f.Arg(0), models.Record{Amount: amount, Price: price, AcquiredAt: c.epoch}); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string             { return "delete" }
func (*deleteCmd) Synopsis() string         { return "forget a symbol entirely" }
func (*deleteCmd) Usage() string            { return "stocks delete <symbol>\n" }
func (*deleteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.ledger.Delete(ctx, f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
