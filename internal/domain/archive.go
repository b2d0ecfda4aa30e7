package domain

import "time"

// ArchivedSnapshot is one reload's full ledger as written to the archive
// sink. SnapshotID is deterministic over (save mtime, game time), so
// re-archiving the same savegame is detectable as a duplicate.
type ArchivedSnapshot struct {
	SnapshotID  string
	GameTime    float64
	SourceMTime int64 // unix seconds of the savegame file
	LoadedAt    time.Time
	Rows        []*ArchivedRow
}

// ArchivedRow is a ledger row plus its deterministic archive identity.
type ArchivedRow struct {
	RowID      string
	SnapshotID string
	LedgerRow
}
