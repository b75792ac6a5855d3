package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKS_DATA_DIR", dir)
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("STORE_CODEC", "")
	t.Setenv("PRICE_MAX_AGE", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "msgpack", cfg.Codec)
	assert.Equal(t, filepath.Join(dir, "stocks.db"), cfg.SQLitePath)
	assert.Equal(t, 15*time.Minute, cfg.PriceMaxAge)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.SQL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOCKS_DATA_DIR", t.TempDir())
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("STORE_CODEC", "json")
	t.Setenv("PRICE_MAX_AGE", "60")
	t.Setenv("QUOTE_TIMEOUT", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, time.Minute, cfg.PriceMaxAge)
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.SQL())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Backend: "file", Codec: "json"}, false},
		{"postgres without url", Config{Backend: "postgres", Codec: "json"}, true},
		{"postgres", Config{Backend: "postgres", Codec: "json", PostgresURL: "postgres://x"}, false},
		{"s3 without bucket", Config{Backend: "s3", Codec: "msgpack"}, true},
		{"unknown backend", Config{Backend: "redis", Codec: "json"}, true},
		{"unknown codec", Config{Backend: "file", Codec: "gob"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
