// Package ledger keeps the purchase lots of a named portfolio and values them
// against a price oracle.
//
// A Ledger is not safe for concurrent use, and two processes sharing one
// store will overwrite each other's updates.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"stockledger/internal/models"
	"stockledger/internal/service"

	"github.com/sirupsen/logrus"
)

// Store persists whole portfolio snapshots by name. Load returns
// models.ErrPortfolioNotFound when nothing was saved under name.
type Store interface {
	Load(ctx context.Context, name string) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Entry describes what Add stored.
type Entry struct {
	Symbol string  `json:"symbol"`
	Amount int64   `json:"amount"`
	Price  float64 `json:"price"`
}

type Ledger struct {
	name   string
	store  Store
	oracle service.PriceOracle
	log    *logrus.Logger
	now    func() time.Time

	lots map[string][]*Lot
}

// Open loads the portfolio called name from store, or starts an empty one
// when none was saved yet. Names are case-insensitive.
func Open(ctx context.Context, name string, store Store, oracle service.PriceOracle, log *logrus.Logger) (*Ledger, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, errors.New("portfolio name is required")
	}
	l := &Ledger{
		name:   name,
		store:  store,
		oracle: oracle,
		log:    log,
		now:    time.Now,
		lots:   map[string][]*Lot{},
	}

	snap, err := store.Load(ctx, name)
	if errors.Is(err, models.ErrPortfolioNotFound) {
		log.Debugf("portfolio %q does not exist yet, starting empty", name)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio %q: %w", name, err)
	}

	keys := make([]string, 0, len(snap.Lots))
	for k := range snap.Lots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		symbol := normalizeSymbol(k)
		for _, r := range snap.Lots[k] {
			if r.Amount <= 0 {
				log.Warnf("portfolio %q: dropping empty lot of %s", name, symbol)
				continue
			}
			l.lots[symbol] = append(l.lots[symbol], NewLot(oracle, symbol, r.Amount, r.Price, r.AcquiredAt))
		}
	}
	return l, nil
}

// NormalizeName maps a portfolio name to its storage key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (l *Ledger) Name() string { return l.name }

// Has reports whether any lot of symbol is held.
func (l *Ledger) Has(symbol string) bool {
	_, ok := l.lots[normalizeSymbol(symbol)]
	return ok
}

// Symbols lists held symbols in lexical order.
func (l *Ledger) Symbols() []string {
	res := make([]string, 0, len(l.lots))
	for s := range l.lots {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}

// Lots returns a copy of the lots of symbol in insertion order, or nil.
func (l *Ledger) Lots(symbol string) []Lot {
	lots, ok := l.lots[normalizeSymbol(symbol)]
	if !ok {
		return nil
	}
	res := make([]Lot, len(lots))
	for i, lot := range lots {
		res[i] = *lot
	}
	return res
}

// Len is the number of held symbols.
func (l *Ledger) Len() int { return len(l.lots) }

// Add records a purchase of amount shares of symbol as a new lot. Without
// WithPrice the current price is used, without WithTimestamp the current time.
func (l *Ledger) Add(ctx context.Context, symbol string, amount int64, opts ...AddOption) (Entry, error) {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	symbol = normalizeSymbol(symbol)
	lot, err := l.newLot(ctx, symbol, models.Record{Amount: amount, Price: o.price, AcquiredAt: o.acquiredAt})
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{Symbol: symbol, Amount: lot.Amount, Price: lot.Price}

	// zero lots are never kept
	if lot.Amount > 0 {
		l.lots[symbol] = append(l.lots[symbol], lot)
	}
	if err := l.save(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// Remove takes shares of symbol out of the portfolio and returns how many
// were removed. See ByAmount and ByPrice for the selection rules. Asking for
// more shares than held removes everything held, without error.
func (l *Ledger) Remove(ctx context.Context, symbol string, opts ...RemoveOption) (int64, error) {
	var o removeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.byAmount && o.byPrice {
		return 0, ErrInvalidArguments
	}
	if o.amount < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, o.amount)
	}
	symbol = normalizeSymbol(symbol)
	if _, ok := l.lots[symbol]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	var removed int64
	switch {
	case o.byPrice:
		removed = l.removeByPrice(symbol, o.price)
	case o.amount > 0:
		removed = l.removeByAmount(symbol, o.amount)
	default:
		removed = l.removeAll(symbol)
	}

	if err := l.save(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}

func (l *Ledger) removeAll(symbol string) int64 {
	var removed int64
	for _, lot := range l.lots[symbol] {
		removed += lot.Amount
	}
	delete(l.lots, symbol)
	return removed
}

func (l *Ledger) removeByPrice(symbol string, price float64) int64 {
	var removed int64
	kept := l.lots[symbol][:0]
	for _, lot := range l.lots[symbol] {
		if lot.Price == price {
			removed += lot.Amount
			continue
		}
		kept = append(kept, lot)
	}
	l.setLots(symbol, kept)
	return removed
}

// removeByAmount consumes lots in insertion order until amount shares are
// gone or no lot is left. Only the last lot touched may be partially kept.
func (l *Ledger) removeByAmount(symbol string, amount int64) int64 {
	lots := l.lots[symbol]
	outstanding := amount
	i := 0
	for i < len(lots) && outstanding > 0 {
		lot := lots[i]
		if lot.Amount <= outstanding {
			outstanding -= lot.Amount
			i++
			continue
		}
		lot.Amount -= outstanding
		outstanding = 0
	}
	l.setLots(symbol, lots[i:])
	return amount - outstanding
}

func (l *Ledger) setLots(symbol string, lots []*Lot) {
	if len(lots) == 0 {
		delete(l.lots, symbol)
		return
	}
	l.lots[symbol] = lots
}

// Set replaces every lot of symbol with the single purchase in r.
func (l *Ledger) Set(ctx context.Context, symbol string, r models.Record) error {
	symbol = normalizeSymbol(symbol)
	lot, err := l.newLot(ctx, symbol, r)
	if err != nil {
		return err
	}
	delete(l.lots, symbol)
	if lot.Amount > 0 {
		l.lots[symbol] = []*Lot{lot}
	}
	return l.save(ctx)
}

// Delete drops every lot of symbol.
func (l *Ledger) Delete(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if _, ok := l.lots[symbol]; !ok {
		return fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	delete(l.lots, symbol)
	return l.save(ctx)
}

func (l *Ledger) newLot(ctx context.Context, symbol string, r models.Record) (*Lot, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", service.ErrInvalidSymbol)
	}
	if r.Amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, r.Amount)
	}
	if r.Price < 0 || math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, r.Price)
	}
	price := r.Price
	if price == 0 {
		p, err := l.oracle.CurrentPrice(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPriceUnavailable, symbol, err)
		}
		price = p
	}
	acquiredAt := r.AcquiredAt
	if acquiredAt == 0 {
		acquiredAt = l.now().Unix()
	}
	return NewLot(l.oracle, symbol, r.Amount, price, acquiredAt), nil
}

// ProfitFor sums the gains of every lot of symbol. The price is queried once
// per lot, so a moving feed can make the lots disagree within one call.
func (l *Ledger) ProfitFor(ctx context.Context, symbol string) (float64, error) {
	symbol = normalizeSymbol(symbol)
	lots, ok := l.lots[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	var total float64
	for _, lot := range lots {
		gain, err := lot.TotalGain(ctx)
		if err != nil {
			return 0, err
		}
		total += gain
	}
	return total, nil
}

// TotalProfit sums ProfitFor over every held symbol.
func (l *Ledger) TotalProfit(ctx context.Context) (float64, error) {
	var total float64
	for _, s := range l.Symbols() {
		p, err := l.ProfitFor(ctx, s)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// ValueOf is the current value of every lot of symbol.
func (l *Ledger) ValueOf(ctx context.Context, symbol string) (float64, error) {
	symbol = normalizeSymbol(symbol)
	lots, ok := l.lots[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	var total float64
	for _, lot := range lots {
		v, err := lot.CurrentValue(ctx)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// CostOf is what was paid for every lot of symbol.
func (l *Ledger) CostOf(symbol string) (float64, error) {
	symbol = normalizeSymbol(symbol)
	lots, ok := l.lots[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	var total float64
	for _, lot := range lots {
		total += lot.InitialValue()
	}
	return total, nil
}

func (l *Ledger) TotalValue(ctx context.Context) (float64, error) {
	var total float64
	for _, s := range l.Symbols() {
		v, err := l.ValueOf(ctx, s)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Snapshot is the persisted form of the current state.
func (l *Ledger) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Version: models.SnapshotVersion,
		Name:    l.name,
		SavedAt: l.now().Unix(),
		Lots:    make(map[string][]models.Lot, len(l.lots)),
	}
	for s, lots := range l.lots {
		recs := make([]models.Lot, len(lots))
		for i, lot := range lots {
			recs[i] = lot.record()
		}
		snap.Lots[s] = recs
	}
	return snap
}

func (l *Ledger) save(ctx context.Context) error {
	if err := l.store.Save(ctx, l.Snapshot()); err != nil {
		return fmt.Errorf("save portfolio %q: %w", l.name, err)
	}
	l.log.Debugf("portfolio %q saved (%d symbols)", l.name, len(l.lots))
	return nil
}
