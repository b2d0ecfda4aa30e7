package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
	pgstore "x4-ledger/internal/storage/postgres"
)

func archiveSnapshot(id string) *domain.ArchivedSnapshot {
	return &domain.ArchivedSnapshot{
		SnapshotID:  id,
		GameTime:    7200,
		SourceMTime: 1700000000,
		LoadedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Rows: []*domain.ArchivedRow{
			{RowID: id + "-r0", SnapshotID: id, LedgerRow: domain.LedgerRow{
				EntityID: "[0x200]", EntityType: "ship_arg_trader", Class: domain.ClassShipM,
				Name: "Hauler", Code: "DEF-456", CommanderName: "Wheat Farm",
				DefaultOrder: ptr("TradeRoutine"),
				Time:         3600, Ware: "wheat", Value: 5000, Revenue: 5000, Volume: 100, HoursSinceEvent: 1,
			}},
			{RowID: id + "-r1", SnapshotID: id, LedgerRow: domain.LedgerRow{
				EntityID: "[0x100]", Class: domain.ClassStation,
				Name: "Wheat Farm", Code: "ABC-123", CommanderName: "Wheat Farm",
				Time: 2000, Ware: "restock", Value: -300, Cost: 300, HoursSinceEvent: 1,
			}},
		},
	}
}

func TestLedgerArchiveInsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	a := pgstore.NewLedgerArchive(pool)

	require.NoError(t, a.InsertSnapshot(ctx, archiveSnapshot("snap-1")))
	require.NoError(t, a.InsertSnapshot(ctx, archiveSnapshot("snap-2")))

	ids, err := a.GetSnapshotIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"snap-1", "snap-2"}, ids)

	rows, err := a.GetRows(ctx, "snap-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by event time.
	assert.Equal(t, "snap-1-r1", rows[0].RowID)
	assert.Equal(t, "restock", rows[0].Ware)
	assert.Nil(t, rows[0].DefaultOrder)

	hauler := rows[1]
	assert.Equal(t, "[0x200]", hauler.EntityID)
	assert.Equal(t, domain.ClassShipM, hauler.Class)
	require.NotNil(t, hauler.DefaultOrder)
	assert.Equal(t, "TradeRoutine", *hauler.DefaultOrder)
	assert.Equal(t, 5000.0, hauler.Value)
	assert.Equal(t, 1, hauler.HoursSinceEvent)
}

func TestLedgerArchiveDuplicateSnapshot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	a := pgstore.NewLedgerArchive(pool)

	require.NoError(t, a.InsertSnapshot(ctx, archiveSnapshot("snap-1")))
	err := a.InsertSnapshot(ctx, archiveSnapshot("snap-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The failed insert must not leave partial rows behind.
	rows, err := a.GetRows(ctx, "snap-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLedgerArchiveNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	a := pgstore.NewLedgerArchive(pool)
	_, err := a.GetRows(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedgerArchiveInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	a := pgstore.NewLedgerArchive(pool)
	err := a.InsertSnapshot(context.Background(), &domain.ArchivedSnapshot{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
