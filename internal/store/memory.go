package store

import (
	"context"
	"strings"
	"sync"

	"stockledger/internal/models"
)

// Memory keeps snapshots in process. Saved and loaded snapshots are copies.
type Memory struct {
	mu    sync.Mutex
	snaps map[string]models.Snapshot
	saves int
}

func NewMemory() *Memory {
	return &Memory{snaps: map[string]models.Snapshot{}}
}

func (m *Memory) Load(_ context.Context, name string) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[strings.ToLower(name)]
	if !ok {
		return models.Snapshot{}, models.ErrPortfolioNotFound
	}
	return clone(snap), nil
}

func (m *Memory) Save(_ context.Context, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[strings.ToLower(snap.Name)] = clone(snap)
	m.saves++
	return nil
}

// Saves counts calls to Save.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func clone(snap models.Snapshot) models.Snapshot {
	c := snap
	c.Lots = make(map[string][]models.Lot, len(snap.Lots))
	for s, lots := range snap.Lots {
		c.Lots[s] = append([]models.Lot(nil), lots...)
	}
	return c
}
