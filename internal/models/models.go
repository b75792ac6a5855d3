package models

import "errors"

// ErrPortfolioNotFound is returned by stores when no state was ever saved under a name.
var ErrPortfolioNotFound = errors.New("portfolio not found")

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = 1

// Lot is the persisted form of one purchase batch.
type Lot struct {
	Symbol     string  `db:"symbol" json:"symbol" msgpack:"symbol"`
	Amount     int64   `db:"amount" json:"amount" msgpack:"amount"`
	Price      float64 `db:"price" json:"price" msgpack:"price"`
	AcquiredAt int64   `db:"acquired_at" json:"acquired_at" msgpack:"acquired_at"`
}

// Record replaces every lot of a symbol with a single purchase.
type Record struct {
	Amount     int64   `json:"amount" binding:"gte=0"`
	Price      float64 `json:"price"`
	AcquiredAt int64   `json:"timestamp"`
}

// Snapshot is the whole state of one named portfolio.
type Snapshot struct {
	Version int              `json:"version" msgpack:"version"`
	Name    string           `json:"name" msgpack:"name"`
	SavedAt int64            `json:"saved_at" msgpack:"saved_at"`
	Lots    map[string][]Lot `json:"lots" msgpack:"lots"`
}
