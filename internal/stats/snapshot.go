package stats

import (
	"time"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/resolve"
)

// Snapshot is one fully reconstructed ledger. It is immutable after
// construction and swapped in atomically, so readers never observe a
// half-loaded state.
type Snapshot struct {
	SnapshotID string

	GameTime float64
	Table    *resolve.Table
	Rows     []domain.LedgerRow

	SourcePath  string
	SourceMTime time.Time
	LoadedAt    time.Time

	SkippedEntries int
}

// Status is the serving-state summary for the status endpoint.
type Status struct {
	Loaded          bool      `json:"loaded"`
	SnapshotID      string    `json:"snapshot_id,omitempty"`
	GameTimeSeconds float64   `json:"game_time_seconds,omitempty"`
	GameTimeHours   float64   `json:"game_time_hours,omitempty"`
	SourcePath      string    `json:"source_path,omitempty"`
	LoadedAt        time.Time `json:"loaded_at,omitzero"`
	LedgerRows      int       `json:"ledger_rows"`
	Entities        int       `json:"entities"`
	SkippedEntries  int       `json:"skipped_entries"`
}
