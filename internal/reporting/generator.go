package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"x4-ledger/internal/aggregate"
	"x4-ledger/internal/stats"
)

// Generator produces reports from a loaded snapshot.
type Generator struct {
	idleHours int
	ecoOrders []string
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator. idleHours is the lookback for
// the idle asset section.
func NewGenerator(idleHours int, ecoOrders []string) *Generator {
	return &Generator{
		idleHours: idleHours,
		ecoOrders: ecoOrders,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the complete report from one snapshot.
func (g *Generator) Generate(snap *stats.Snapshot) *Report {
	return &Report{
		GeneratedAt:     g.now(),
		SourcePath:      snap.SourcePath,
		GameTimeSeconds: snap.GameTime,
		GameTimeHours:   math.Round(snap.GameTime/3600*100) / 100,
		EntityCount:     len(snap.Table.Entities),
		LedgerRowCount:  len(snap.Rows),
		SkippedEntries:  snap.SkippedEntries,
		TotalProfit:     aggregate.TotalProfit(snap.Rows),
		PerEntity:       aggregate.PerEntity(snap.Rows),
		PerCommander:    aggregate.PerCommander(snap.Rows),
		IdleAssets:      aggregate.IdleAssets(snap.Rows, g.idleHours, g.ecoOrders),
		Rows:            snap.Rows,
	}
}

// WriteFiles renders the report into outDir: a Markdown summary plus CSV
// exports of both aggregations and the raw ledger.
func (g *Generator) WriteFiles(r *Report, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	files := map[string]string{
		"REPORT.md":         RenderMarkdown(r),
		"PER_ENTITY.csv":    RenderAggregatesCSV(r.PerEntity),
		"PER_COMMANDER.csv": RenderAggregatesCSV(r.PerCommander),
		"LEDGER.csv":        RenderLedgerCSV(r.Rows),
	}

	for name, content := range files {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
