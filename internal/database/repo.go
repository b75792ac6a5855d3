package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockledger/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// Open connects to "postgres" or "sqlite" and checks the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	return db, nil
}

// Migrate creates missing tables.
func (r *Repo) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *Repo) Load(ctx context.Context, name string) (models.Snapshot, error) {
	name = strings.ToLower(name)
	var savedAt int64
	err := r.db.GetContext(ctx, &savedAt, r.db.Rebind(`SELECT saved_at FROM portfolios WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, models.ErrPortfolioNotFound
	}
	if err != nil {
		return models.Snapshot{}, err
	}

	rows := []lotRow{}
	q := `SELECT symbol, amount, price, acquired_at FROM portfolio_lots WHERE portfolio = ? ORDER BY symbol, seq`
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), name); err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		Version: models.SnapshotVersion,
		Name:    name,
		SavedAt: savedAt,
		Lots:    map[string][]models.Lot{},
	}
	for _, row := range rows {
		p, err := decimal.NewFromString(row.Price)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("lot of %s: bad price %q: %w", row.Symbol, row.Price, err)
		}
		snap.Lots[row.Symbol] = append(snap.Lots[row.Symbol], models.Lot{
			Symbol:     row.Symbol,
			Amount:     row.Amount,
			Price:      p.InexactFloat64(),
			AcquiredAt: row.AcquiredAt,
		})
	}
	return snap, nil
}

// Save replaces every stored lot of the portfolio in one transaction.
func (r *Repo) Save(ctx context.Context, snap models.Snapshot) error {
	name := strings.ToLower(snap.Name)
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `INSERT INTO portfolios (name, saved_at) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET saved_at = excluded.saved_at`
	if _, err := tx.ExecContext(ctx, tx.Rebind(upsert), name, snap.SavedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM portfolio_lots WHERE portfolio = ?`), name); err != nil {
		return err
	}

	insert := tx.Rebind(`INSERT INTO portfolio_lots (portfolio, symbol, seq, amount, price, acquired_at) VALUES (?, ?, ?, ?, ?, ?)`)
	for symbol, lots := range snap.Lots {
		for i, l := range lots {
			price := decimal.NewFromFloat(l.Price).String()
			if _, err := tx.ExecContext(ctx, insert, name, symbol, i, l.Amount, price, l.AcquiredAt); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *Repo) GetLatestPrice(ctx context.Context, symbol string) (float64, time.Time, error) {
	var row struct {
		Price      string `db:"price"`
		ObservedAt int64  `db:"observed_at"`
	}
	q := `SELECT price, observed_at FROM price_history WHERE symbol = ? ORDER BY observed_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(q), symbol); err != nil {
		return 0, time.Time{}, err
	}
	p, err := decimal.NewFromString(row.Price)
	if err != nil {
		return 0, time.Time{}, err
	}
	return p.InexactFloat64(), time.Unix(row.ObservedAt, 0).UTC(), nil
}

func (r *Repo) UpsertPrice(ctx context.Context, symbol string, price float64, ts time.Time) error {
	q := `INSERT INTO price_history (symbol, price, observed_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), symbol, decimal.NewFromFloat(price).String(), ts.Unix())
	return err
}

// GetAllSymbols lists every symbol held in any stored portfolio.
func (r *Repo) GetAllSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT DISTINCT symbol FROM portfolio_lots ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			r.log.Warnf("scan symbol failed: %v", err)
			continue
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
