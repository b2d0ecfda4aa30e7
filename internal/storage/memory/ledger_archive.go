// Package memory provides in-memory storage implementations for tests and
// single-process runs without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
)

// LedgerArchive is a thread-safe in-memory archive.
type LedgerArchive struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.ArchivedSnapshot
	order     []string
}

var _ storage.LedgerArchive = (*LedgerArchive)(nil)

// NewLedgerArchive creates an empty in-memory archive.
func NewLedgerArchive() *LedgerArchive {
	return &LedgerArchive{
		snapshots: make(map[string]*domain.ArchivedSnapshot),
	}
}

func (a *LedgerArchive) InsertSnapshot(_ context.Context, snap *domain.ArchivedSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return fmt.Errorf("%w: snapshot id is required", storage.ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.snapshots[snap.SnapshotID]; exists {
		return fmt.Errorf("%w: snapshot %s", storage.ErrDuplicateKey, snap.SnapshotID)
	}

	a.snapshots[snap.SnapshotID] = snap
	a.order = append(a.order, snap.SnapshotID)
	return nil
}

func (a *LedgerArchive) GetSnapshotIDs(_ context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, len(a.order))
	copy(ids, a.order)
	return ids, nil
}

func (a *LedgerArchive) GetRows(_ context.Context, snapshotID string) ([]*domain.ArchivedRow, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap, ok := a.snapshots[snapshotID]
	if !ok {
		return nil, fmt.Errorf("%w: snapshot %s", storage.ErrNotFound, snapshotID)
	}

	rows := make([]*domain.ArchivedRow, len(snap.Rows))
	copy(rows, snap.Rows)
	return rows, nil
}

func (a *LedgerArchive) Close() error {
	return nil
}
