package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrFeedUnavailable = errors.New("price feed unavailable")
)

// PriceOracle returns the current price per share of a symbol.
type PriceOracle interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// OracleFunc adapts a plain function to PriceOracle.
type OracleFunc func(ctx context.Context, symbol string) (float64, error)

func (f OracleFunc) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return f(ctx, symbol)
}

// StaticOracle serves prices from memory. Unknown symbols are invalid.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewStaticOracle(prices map[string]float64) *StaticOracle {
	o := &StaticOracle{prices: make(map[string]float64, len(prices))}
	for s, p := range prices {
		o.prices[strings.ToUpper(s)] = p
	}
	return o
}

func (o *StaticOracle) Set(symbol string, price float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[strings.ToUpper(symbol)] = price
}

func (o *StaticOracle) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}
	return p, nil
}
