// Package postgres implements the ledger archive on PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/storage"
)

// LedgerArchive stores archived snapshots in PostgreSQL.
type LedgerArchive struct {
	pool *Pool
}

var _ storage.LedgerArchive = (*LedgerArchive)(nil)

// NewLedgerArchive creates a PostgreSQL-backed archive.
func NewLedgerArchive(pool *Pool) *LedgerArchive {
	return &LedgerArchive{pool: pool}
}

// InsertSnapshot stores the snapshot header and all rows in one
// transaction, so a crash mid-insert never leaves a partial snapshot.
func (a *LedgerArchive) InsertSnapshot(ctx context.Context, snap *domain.ArchivedSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return fmt.Errorf("%w: snapshot id is required", storage.ErrInvalidInput)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ledger_snapshots (snapshot_id, game_time, source_mtime, loaded_at, row_count)
		VALUES ($1, $2, $3, $4, $5)`,
		snap.SnapshotID, snap.GameTime, snap.SourceMTime, snap.LoadedAt, len(snap.Rows))
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: snapshot %s", storage.ErrDuplicateKey, snap.SnapshotID)
		}
		return fmt.Errorf("insert snapshot %s: %w", snap.SnapshotID, err)
	}

	for _, row := range snap.Rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO ledger_rows (
				row_id, snapshot_id, entity_id, entity_type, class, name, code,
				commander_name, default_order, event_time, ware,
				value, revenue, cost, volume, hours_since_event
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			row.RowID, snap.SnapshotID, row.EntityID, row.EntityType, string(row.Class),
			row.Name, row.Code, row.CommanderName, row.DefaultOrder, row.Time, row.Ware,
			row.Value, row.Revenue, row.Cost, row.Volume, row.HoursSinceEvent)
		if err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: row %s", storage.ErrDuplicateKey, row.RowID)
			}
			return fmt.Errorf("insert ledger row %s: %w", row.RowID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", snap.SnapshotID, err)
	}
	return nil
}

// GetSnapshotIDs lists archived snapshots, oldest first.
func (a *LedgerArchive) GetSnapshotIDs(ctx context.Context) ([]string, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT snapshot_id FROM ledger_snapshots ORDER BY loaded_at, snapshot_id`)
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
	var exists bool
	err := a.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM ledger_snapshots WHERE snapshot_id = $1)`,
		snapshotID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check snapshot %s: %w", snapshotID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: snapshot %s", storage.ErrNotFound, snapshotID)
	}

	rows, err := a.pool.Query(ctx, `
		SELECT row_id, snapshot_id, entity_id, entity_type, class, name, code,
		       commander_name, default_order, event_time, ware,
		       value, revenue, cost, volume, hours_since_event
		FROM ledger_rows
		WHERE snapshot_id = $1
		ORDER BY event_time, row_id`,
		snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows for %s: %w", snapshotID, err)
	}
	defer rows.Close()

	var out []*domain.ArchivedRow
	for rows.Next() {
		var (
			row   domain.ArchivedRow
			class string
		)
		err := rows.Scan(
			&row.RowID, &row.SnapshotID, &row.EntityID, &row.EntityType, &class,
			&row.Name, &row.Code, &row.CommanderName, &row.DefaultOrder, &row.Time,
			&row.Ware, &row.Value, &row.Revenue, &row.Cost, &row.Volume, &row.HoursSinceEvent)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		row.Class = domain.Class(class)
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying pool.
func (a *LedgerArchive) Close() error {
	a.pool.Close()
	return nil
}
