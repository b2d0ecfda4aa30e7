package clickhouse_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
	chstore "x4-ledger/internal/storage/clickhouse"
	"x4-ledger/internal/storage/migrations"
)

// setupTestConn connects to the ClickHouse named by CLICKHOUSE_TEST_DSN and
// applies migrations. Tests skip when the variable is unset.
func setupTestConn(t *testing.T) *chstore.Conn {
	t.Helper()

	dsn := os.Getenv("CLICKHOUSE_TEST_DSN")
	if dsn == "" {
		t.Skip("CLICKHOUSE_TEST_DSN not set, skipping clickhouse integration test")
	}

	conn, err := migrations.RunClickhouseMigrations(context.Background(), dsn)
	require.NoError(t, err, "failed to migrate clickhouse")

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("failed to close connection: %v", err)
		}
	})
	return conn
}

func chSnapshot(id string) *domain.ArchivedSnapshot {
	order := "TradeRoutine"
	return &domain.ArchivedSnapshot{
		SnapshotID:  id,
		GameTime:    7200,
		SourceMTime: 1700000000,
		LoadedAt:    time.Now().UTC().Truncate(time.Second),
		Rows: []*domain.ArchivedRow{
			{RowID: id + "-r0", SnapshotID: id, LedgerRow: domain.LedgerRow{
				EntityID: "[0x200]", Class: domain.ClassShipM, Name: "Hauler",
				CommanderName: "Wheat Farm", DefaultOrder: &order,
				Time: 3600, Ware: "wheat", Value: 5000, Revenue: 5000, Volume: 100, HoursSinceEvent: 1,
			}},
		},
	}
}

func TestLedgerArchiveRoundTrip(t *testing.T) {
	conn := setupTestConn(t)
	ctx := context.Background()
	a := chstore.NewLedgerArchive(conn)

	id := "snap-" + time.Now().Format("20060102150405.000000000")
	require.NoError(t, a.InsertSnapshot(ctx, chSnapshot(id)))

	err := a.InsertSnapshot(ctx, chSnapshot(id))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	ids, err := a.GetSnapshotIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, id)

	rows, err := a.GetRows(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "wheat", rows[0].Ware)
	require.NotNil(t, rows[0].DefaultOrder)
	assert.Equal(t, "TradeRoutine", *rows[0].DefaultOrder)
}

func TestLedgerArchiveNotFound(t *testing.T) {
	conn := setupTestConn(t)
	a := chstore.NewLedgerArchive(conn)

	_, err := a.GetRows(context.Background(), "definitely-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
