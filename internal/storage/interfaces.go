// Package storage defines the persistence interfaces for the ledger
// archive. Implementations live in the memory, postgres and clickhouse
// subpackages.
package storage

import (
	"context"

	"x4-ledger/internal/domain"
)

// LedgerArchive persists reconstructed ledgers keyed by snapshot. The
// archive is write-mostly: the serving path only appends to it, reads exist
// for offline analysis and reporting.
type LedgerArchive interface {
	// InsertSnapshot stores a snapshot header and all of its rows
	// atomically. Returns ErrDuplicateKey when the snapshot id already
	// exists and ErrInvalidInput when the snapshot is malformed.
	InsertSnapshot(ctx context.Context, snap *domain.ArchivedSnapshot) error

	// GetSnapshotIDs lists all archived snapshot ids, oldest first.
	GetSnapshotIDs(ctx context.Context) ([]string, error)

	// GetRows returns the rows of one archived snapshot. Returns
	// ErrNotFound for an unknown snapshot id.
	GetRows(ctx context.Context, snapshotID string) ([]*domain.ArchivedRow, error)

	// Close releases the underlying connections.
	Close() error
}
