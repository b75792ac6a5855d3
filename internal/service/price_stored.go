package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// PriceStore keeps the history of observed prices.
type PriceStore interface {
	GetLatestPrice(ctx context.Context, symbol string) (float64, time.Time, error)
	UpsertPrice(ctx context.Context, symbol string, price float64, ts time.Time) error
}

// StoredPriceService answers from the price history while the latest entry
// is younger than maxAge, and asks upstream otherwise.
type StoredPriceService struct {
	repo     PriceStore
	upstream PriceOracle
	maxAge   time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

// NewStoredPriceService builds the service. upstream may be nil, in which case
// only fresh stored prices are served.
func NewStoredPriceService(r PriceStore, upstream PriceOracle, maxAge time.Duration, log *logrus.Logger) *StoredPriceService {
	return &StoredPriceService{repo: r, upstream: upstream, maxAge: maxAge, log: log, now: time.Now}
}

func (p *StoredPriceService) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	price, ts, err := p.repo.GetLatestPrice(ctx, symbol)
	if err == nil && p.now().Sub(ts) < p.maxAge {
		return price, nil
	}
	return p.Refresh(ctx, symbol)
}

// Refresh fetches the upstream price and records it.
func (p *StoredPriceService) Refresh(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	if p.upstream == nil {
		return 0, fmt.Errorf("%w: no fresh price for %s", ErrFeedUnavailable, symbol)
	}
	price, err := p.upstream.CurrentPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if err := p.repo.UpsertPrice(ctx, symbol, price, p.now().UTC()); err != nil {
		p.log.Warnf("record price for %s: %v", symbol, err)
	}
	return price, nil
}
