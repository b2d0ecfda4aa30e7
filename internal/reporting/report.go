// Package reporting renders one-shot economic reports from a loaded
// snapshot, for sharing outside the dashboard.
package reporting

import (
	"time"

	"x4-ledger/internal/domain"
)

// Report is the complete economic report for one savegame.
type Report struct {
	GeneratedAt time.Time

	SourcePath      string
	GameTimeSeconds float64
	GameTimeHours   float64

	EntityCount    int
	LedgerRowCount int
	SkippedEntries int

	TotalProfit float64

	PerEntity    []domain.Aggregate
	PerCommander []domain.Aggregate
	IdleAssets   []domain.Aggregate
	Rows         []domain.LedgerRow
}
