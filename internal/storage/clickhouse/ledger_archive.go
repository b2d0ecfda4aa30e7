// Package clickhouse implements the ledger archive on ClickHouse. MergeTree
// tables do not enforce uniqueness, so duplicate detection happens with an
// explicit existence check before insert.
package clickhouse

import (
	"context"
	"fmt"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
)

// LedgerArchive stores archived snapshots in ClickHouse.
type LedgerArchive struct {
	conn *Conn
}

var _ storage.LedgerArchive = (*LedgerArchive)(nil)

// NewLedgerArchive creates a ClickHouse-backed archive.
func NewLedgerArchive(conn *Conn) *LedgerArchive {
	return &LedgerArchive{conn: conn}
}

// InsertSnapshot stores the snapshot header and batches the rows. The
// existence check and the inserts are not atomic; a concurrent writer for
// the same snapshot id is the caller's problem, and the serving path only
// ever has one.
func (a *LedgerArchive) InsertSnapshot(ctx context.Context, snap *domain.ArchivedSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return fmt.Errorf("%w: snapshot id is required", storage.ErrInvalidInput)
	}

	var count uint64
	err := a.conn.QueryRow(ctx,
		"SELECT count() FROM ledger_snapshots WHERE snapshot_id = ?",
		snap.SnapshotID).Scan(&count)
	if err != nil {
		return fmt.Errorf("check snapshot %s: %w", snap.SnapshotID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: snapshot %s", storage.ErrDuplicateKey, snap.SnapshotID)
	}

	err = a.conn.Exec(ctx, `
		INSERT INTO ledger_snapshots (snapshot_id, game_time, source_mtime, loaded_at, row_count)
		VALUES (?, ?, ?, ?, ?)`,
		snap.SnapshotID, snap.GameTime, snap.SourceMTime, snap.LoadedAt, uint64(len(snap.Rows)))
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.SnapshotID, err)
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO ledger_rows (
			row_id, snapshot_id, entity_id, entity_type, class, name, code,
			commander_name, default_order, event_time, ware,
			value, revenue, cost, volume, hours_since_event
		)`)
	if err != nil {
		return fmt.Errorf("prepare row batch: %w", err)
	}

	for _, row := range snap.Rows {
		defaultOrder := ""
		if row.DefaultOrder != nil {
			defaultOrder = *row.DefaultOrder
		}
		err := batch.Append(
			row.RowID, snap.SnapshotID, row.EntityID, row.EntityType, string(row.Class),
			row.Name, row.Code, row.CommanderName, defaultOrder, row.Time, row.Ware,
			row.Value, row.Revenue, row.Cost, row.Volume, int32(row.HoursSinceEvent))
		if err != nil {
			return fmt.Errorf("append ledger row %s: %w", row.RowID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send row batch for %s: %w", snap.SnapshotID, err)
	}
	return nil
}

// GetSnapshotIDs lists archived snapshots, oldest first.
func (a *LedgerArchive) GetSnapshotIDs(ctx context.Context) ([]string, error) {
	rows, err := a.conn.Query(ctx,
		"SELECT snapshot_id FROM ledger_snapshots ORDER BY loaded_at, snapshot_id")
	if err != nil {
		return nil, fmt.Errorf("query snapshot ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot ids: %w", err)
	}
	return ids, nil
}

// GetRows returns all rows of one snapshot.
func (a *LedgerArchive) GetRows(ctx context.Context, snapshotID string) ([]*domain.ArchivedRow, error) {
	var count uint64
	err := a.conn.QueryRow(ctx,
		"SELECT count() FROM ledger_snapshots WHERE snapshot_id = ?", snapshotID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("check snapshot %s: %w", snapshotID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: snapshot %s", storage.ErrNotFound, snapshotID)
	}

	rows, err := a.conn.Query(ctx, `
		SELECT row_id, snapshot_id, entity_id, entity_type, class, name, code,
		       commander_name, default_order, event_time, ware,
		       value, revenue, cost, volume, hours_since_event
		FROM ledger_rows
		WHERE snapshot_id = ?
		ORDER BY event_time, row_id`,
		snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows for %s: %w", snapshotID, err)
	}
	defer rows.Close()

	var out []*domain.ArchivedRow
	for rows.Next() {
		var (
			row          domain.ArchivedRow
			class        string
			defaultOrder string
			hours        int32
		)
		err := rows.Scan(
			&row.RowID, &row.SnapshotID, &row.EntityID, &row.EntityType, &class,
			&row.Name, &row.Code, &row.CommanderName, &defaultOrder, &row.Time,
			&row.Ware, &row.Value, &row.Revenue, &row.Cost, &row.Volume, &hours)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		row.Class = domain.Class(class)
		row.HoursSinceEvent = int(hours)
		if defaultOrder != "" {
			row.DefaultOrder = &defaultOrder
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying connection.
func (a *LedgerArchive) Close() error {
	return a.conn.Close()
}
