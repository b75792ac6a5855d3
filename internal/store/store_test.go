package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stockledger/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(name string) models.Snapshot {
	return models.Snapshot{
		Version: models.SnapshotVersion,
		Name:    name,
		SavedAt: 1700000000,
		Lots: map[string][]models.Lot{
			"ACME": {
				{Symbol: "ACME", Amount: 5, Price: 10.25, AcquiredAt: 1600000000},
				{Symbol: "ACME", Amount: 3, Price: 0.1 + 0.2, AcquiredAt: 1600000001},
			},
			"XYZ": {{Symbol: "XYZ", Amount: 1, Price: 1e-9, AcquiredAt: 1}},
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			dir := t.TempDir()
			s, err := NewFileStore(dir, codec, logrus.New())
			require.NoError(t, err)
			ctx := context.Background()

			want := sampleSnapshot("main")
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx, "MAIN")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1, "temporary files must be cleaned up")
			assert.Equal(t, "main.portfolio", entries[0].Name())
		})
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), JSONCodec{}, logrus.New())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSnapshot("main")))
	empty := models.Snapshot{Version: models.SnapshotVersion, Name: "main", Lots: map[string][]models.Lot{}}
	require.NoError(t, s.Save(ctx, empty))

	got, err := s.Load(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, got.Lots)
}

func TestFileStore_NotFound(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), MsgpackCodec{}, logrus.New())
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, models.ErrPortfolioNotFound)
}

func TestFileStore_InvalidNames(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), JSONCodec{}, logrus.New())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		_, err := s.Load(context.Background(), name)
		assert.Error(t, err, name)
		assert.NotErrorIs(t, err, models.ErrPortfolioNotFound, name)
	}
}

func TestFileStore_CorruptAndNewerBlobs(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, JSONCodec{}, logrus.New())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.portfolio"), []byte("{truncated"), 0o600))
	_, err = s.Load(context.Background(), "bad")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "future.portfolio"), []byte(`{"version": 99, "name": "future"}`), 0o600))
	_, err = s.Load(context.Background(), "future")
	assert.ErrorContains(t, err, "newer")
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())

	_, err = CodecByName("gob")
	assert.Error(t, err)
}

func TestMemory_Copies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	snap := sampleSnapshot("Main")
	require.NoError(t, m.Save(ctx, snap))
	snap.Lots["ACME"][0].Amount = 99

	got, err := m.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Lots["ACME"][0].Amount)
	assert.Equal(t, 1, m.Saves())

	_, err = m.Load(ctx, "other")
	assert.ErrorIs(t, err, models.ErrPortfolioNotFound)
}
