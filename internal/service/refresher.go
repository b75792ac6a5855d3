package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SymbolLister lists the symbols worth keeping fresh.
type SymbolLister interface {
	GetAllSymbols(ctx context.Context) ([]string, error)
}

// Refresher periodically refreshes stored prices of every held symbol.
type Refresher struct {
	cron    *cron.Cron
	symbols SymbolLister
	prices  *StoredPriceService
	log     *logrus.Logger
}

func NewRefresher(symbols SymbolLister, prices *StoredPriceService, log *logrus.Logger) *Refresher {
	return &Refresher{cron: cron.New(), symbols: symbols, prices: prices, log: log}
}

// Start schedules the refresh job (cron syntax or descriptors such as
// "@every 1h") and stops it when ctx is done.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce(ctx) }); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Infof("price refresher scheduled %q", schedule)
	go func() {
		<-ctx.Done()
		<-r.cron.Stop().Done()
		r.log.Info("price refresher stopping")
	}()
	return nil
}

// RunOnce refreshes every listed symbol and returns how many succeeded.
func (r *Refresher) RunOnce(ctx context.Context) int {
	symbols, err := r.symbols.GetAllSymbols(ctx)
	if err != nil {
		r.log.Warnf("failed to fetch symbols: %v", err)
		return 0
	}
	n := 0
	for _, s := range symbols {
		if _, err := r.prices.Refresh(ctx, s); err != nil {
			r.log.Warnf("refresh %s: %v", s, err)
			continue
		}
		n++
	}
	return n
}
