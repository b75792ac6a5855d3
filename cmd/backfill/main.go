// Command backfill records prices into the SQL price history, so portfolios
// can be valued without a live quote feed.
//
//	backfill RELIANCE=2500.50 TCS=3400.75
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"stockledger/internal/app"
	"stockledger/internal/config"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if !cfg.SQL() {
		logger.Fatalf("backfill needs STORE_BACKEND=postgres or sqlite, got %q", cfg.Backend)
	}
	if len(os.Args) < 2 {
		logger.Fatal("usage: backfill SYMBOL=PRICE...")
	}

	ctx := context.Background()
	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer deps.Close()

	now := time.Now().UTC()
	failed := 0
	for _, arg := range os.Args[1:] {
		sym, p, ok := strings.Cut(arg, "=")
		if !ok {
			logger.Warnf("skipping %q: expected SYMBOL=PRICE", arg)
			failed++
			continue
		}
		price, err := decimal.NewFromString(p)
		if err != nil || !price.IsPositive() {
			logger.Warnf("skipping %q: bad price", arg)
			failed++
			continue
		}
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if err := deps.Repo.UpsertPrice(ctx, sym, price.InexactFloat64(), now); err != nil {
			logger.Warnf("could not insert price for %s: %v", sym, err)
			failed++
			continue
		}
		fmt.Printf("%s %s @ %s\n", sym, price.StringFixed(4), now.Format(time.RFC3339))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
