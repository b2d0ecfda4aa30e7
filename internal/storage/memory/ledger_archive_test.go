package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
)

func testSnapshot(id string, gameTime float64) *domain.ArchivedSnapshot {
	return &domain.ArchivedSnapshot{
		SnapshotID:  id,
		GameTime:    gameTime,
		SourceMTime: 1700000000,
		LoadedAt:    time.Now(),
		Rows: []*domain.ArchivedRow{
			{RowID: id + "-r0", SnapshotID: id, LedgerRow: domain.LedgerRow{
				EntityID: "[0x200]", Class: domain.ClassShipM, Name: "Hauler",
				Time: 3600, Ware: "wheat", Value: 5000, Revenue: 5000, Volume: 100,
			}},
		},
	}
}

func TestLedgerArchiveInsertAndGet(t *testing.T) {
	ctx := context.Background()
	a := NewLedgerArchive()

	require.NoError(t, a.InsertSnapshot(ctx, testSnapshot("snap-1", 7200)))
	require.NoError(t, a.InsertSnapshot(ctx, testSnapshot("snap-2", 10800)))

	ids, err := a.GetSnapshotIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"snap-1", "snap-2"}, ids, "oldest first")

	rows, err := a.GetRows(ctx, "snap-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "snap-1-r0", rows[0].RowID)
	assert.Equal(t, "wheat", rows[0].Ware)
}

func TestLedgerArchiveDuplicate(t *testing.T) {
	ctx := context.Background()
	a := NewLedgerArchive()

	require.NoError(t, a.InsertSnapshot(ctx, testSnapshot("snap-1", 7200)))
	err := a.InsertSnapshot(ctx, testSnapshot("snap-1", 7200))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestLedgerArchiveNotFound(t *testing.T) {
	a := NewLedgerArchive()
	_, err := a.GetRows(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedgerArchiveInvalidInput(t *testing.T) {
	a := NewLedgerArchive()
	assert.ErrorIs(t, a.InsertSnapshot(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, a.InsertSnapshot(context.Background(), &domain.ArchivedSnapshot{}), storage.ErrInvalidInput)
}
