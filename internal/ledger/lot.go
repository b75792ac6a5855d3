package ledger

import (
	"context"
	"fmt"

	"stockledger/internal/models"
	"stockledger/internal/service"
)

// Lot is one purchase batch of a symbol. Valuations that need the current
// price ask the oracle the lot was built with, on every call.
type Lot struct {
	Symbol     string  `json:"symbol"`
	Amount     int64   `json:"amount"`
	Price      float64 `json:"price"`     // paid per share
	AcquiredAt int64   `json:"timestamp"` // epoch seconds

	oracle service.PriceOracle
}

func NewLot(oracle service.PriceOracle, symbol string, amount int64, price float64, acquiredAt int64) *Lot {
	return &Lot{Symbol: symbol, Amount: amount, Price: price, AcquiredAt: acquiredAt, oracle: oracle}
}

// InitialValue is what was paid for the lot.
func (l *Lot) InitialValue() float64 {
	return l.Price * float64(l.Amount)
}

// CurrentValue is what the lot would sell for at the current price.
func (l *Lot) CurrentValue(ctx context.Context) (float64, error) {
	price, err := l.oracle.CurrentPrice(ctx, l.Symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrPriceUnavailable, l.Symbol, err)
	}
	return price * float64(l.Amount), nil
}

func (l *Lot) TotalGain(ctx context.Context) (float64, error) {
	current, err := l.CurrentValue(ctx)
	if err != nil {
		return 0, err
	}
	return current - l.InitialValue(), nil
}

func (l *Lot) record() models.Lot {
	return models.Lot{Symbol: l.Symbol, Amount: l.Amount, Price: l.Price, AcquiredAt: l.AcquiredAt}
}
