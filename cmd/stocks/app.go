package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockledger/internal/app"
	"stockledger/internal/config"
	"stockledger/internal/ledger"

	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioName = flag.String("p", "", "portfolio name (default $PORTFOLIO or \"default\")")
var verbose = flag.Bool("v", false, "verbose logging")

// session is an open ledger with the resources behind it.
type session struct {
	ledger *ledger.Ledger
	deps   *app.Deps
}

func openSession(ctx context.Context) (*session, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.LogLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	deps, err := app.Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	name := *portfolioName
	if name == "" {
		name = cfg.Portfolio
	}
	l, err := ledger.Open(ctx, name, deps.Store, deps.Oracle, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	return &session{ledger: l, deps: deps}, nil
}

func (s *session) Close() {
	if err := s.deps.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing store: %v\n", err)
	}
}

// printMarkdown renders md for the terminal, falling back to raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func flagSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
