package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"stockledger/internal/models"

	"github.com/sirupsen/logrus"
)

// FileStore keeps one blob per portfolio in a directory.
type FileStore struct {
	dir   string
	codec Codec
	log   *logrus.Logger
}

// DefaultDir is the per-user portfolio directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stockledger"), nil
}

func NewFileStore(dir string, codec Codec, log *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create portfolio directory: %w", err)
	}
	return &FileStore{dir: dir, codec: codec, log: log}, nil
}

func (s *FileStore) Path(name string) (string, error) {
	base, err := blobName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, base), nil
}

func (s *FileStore) Load(_ context.Context, name string) (models.Snapshot, error) {
	p, err := s.Path(name)
	if err != nil {
		return models.Snapshot{}, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Snapshot{}, models.ErrPortfolioNotFound
	}
	if err != nil {
		return models.Snapshot{}, err
	}
	return decode(s.codec, b)
}

// Save writes to a temporary file first and renames it over the previous
// blob, so a crash leaves either the old or the new state.
func (s *FileStore) Save(_ context.Context, snap models.Snapshot) error {
	p, err := s.Path(snap.Name)
	if err != nil {
		return err
	}
	b, err := s.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", s.codec.Name(), err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return err
	}
	s.log.Debugf("wrote %s (%d bytes)", p, len(b))
	return nil
}
