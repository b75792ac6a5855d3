// Package app assembles stores and price oracles from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"stockledger/internal/config"
	"stockledger/internal/database"
	"stockledger/internal/ledger"
	"stockledger/internal/service"
	"stockledger/internal/store"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Store  ledger.Store
	Oracle service.PriceOracle

	// Set only with a SQL backend.
	Repo   *database.Repo
	Prices *service.StoredPriceService

	db *sqlx.DB
}

// Build opens the configured store and price oracle.
func Build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Deps, error) {
	d := &Deps{}

	var upstream service.PriceOracle
	if cfg.QuoteURL != "" {
		client := &http.Client{Timeout: cfg.QuoteTimeout}
		upstream = service.NewQuoteClient(client, cfg.QuoteURL, cfg.QuotePath, log)
	}

	switch cfg.Backend {
	case "postgres", "sqlite":
		driver, dsn := "postgres", cfg.PostgresURL
		if cfg.Backend == "sqlite" {
			driver, dsn = "sqlite", cfg.SQLitePath
		}
		db, err := database.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		d.db = db
		d.Repo = database.New(db, log)
		if err := d.Repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		d.Store = d.Repo
		d.Prices = service.NewStoredPriceService(d.Repo, upstream, cfg.PriceMaxAge, log)
		d.Oracle = d.Prices
		return d, nil

	case "s3":
		codec, err := store.CodecByName(cfg.Codec)
		if err != nil {
			return nil, err
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		d.Store = store.NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix, codec, log)

	default:
		codec, err := store.CodecByName(cfg.Codec)
		if err != nil {
			return nil, err
		}
		fs, err := store.NewFileStore(cfg.DataDir, codec, log)
		if err != nil {
			return nil, err
		}
		d.Store = fs
	}

	d.Oracle = upstream
	if d.Oracle == nil {
		d.Oracle = service.OracleFunc(func(_ context.Context, symbol string) (float64, error) {
			return 0, fmt.Errorf("%w: no quote feed configured (set QUOTE_URL) for %s", service.ErrFeedUnavailable, symbol)
		})
	}
	return d, nil
}

func (d *Deps) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
