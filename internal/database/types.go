package database

// schema is portable between Postgres and SQLite. Prices are stored as exact
// decimal text so a float64 survives the round trip unchanged.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS portfolios (
		name TEXT PRIMARY KEY,
		saved_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio_lots (
		portfolio TEXT NOT NULL,
		symbol TEXT NOT NULL,
		seq INTEGER NOT NULL,
		amount BIGINT NOT NULL,
		price TEXT NOT NULL,
		acquired_at BIGINT NOT NULL,
		PRIMARY KEY (portfolio, symbol, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		symbol TEXT NOT NULL,
		price TEXT NOT NULL,
		observed_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS price_history_symbol_idx ON price_history (symbol, observed_at)`,
}

type lotRow struct {
	Symbol     string `db:"symbol"`
	Amount     int64  `db:"amount"`
	Price      string `db:"price"`
	AcquiredAt int64  `db:"acquired_at"`
}
