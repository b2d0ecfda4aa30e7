// Package main provides the one-shot report generator: it loads the latest
// savegame, reconstructs the ledger and writes Markdown and CSV reports.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/extract"
	"x4-ledger/internal/idhash"
	"x4-ledger/internal/ledger"
	"x4-ledger/internal/reporting"
	"x4-ledger/internal/resolve"
	"x4-ledger/internal/savegame"
	"x4-ledger/internal/stats"
)

func main() {
	saveDir := flag.String("save-dir", os.Getenv("X4_SAVE_DIR"), "Directory the game writes savegames to")
	savePath := flag.String("save", "", "Specific savegame file (overrides --save-dir discovery)")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	idleHours := flag.Int("idle-hours", 1, "Lookback window for the idle asset section")
	ecoOrders := flag.String("eco-orders", "", "Comma-separated default orders that mark traders and miners (empty for built-in set)")
	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	path := *savePath
	var mtime time.Time
	if path == "" {
		if *saveDir == "" {
			logger.Fatal("--save or --save-dir is required")
		}
		var err error
		path, mtime, err = savegame.FindLatest(*saveDir)
		if err != nil {
			logger.Fatalf("Failed to find savegame: %v", err)
		}
	} else {
		info, err := os.Stat(path)
		if err != nil {
			logger.Fatalf("Failed to stat savegame: %v", err)
		}
		mtime = info.ModTime()
	}
	logger.Printf("Loading savegame %s", path)

	res, err := extract.NewExtractor(logger).ExtractFile(path)
	if err != nil {
		logger.Fatalf("Extraction failed: %v", err)
	}

	table, err := resolve.Resolve(res.Entities, res.Connections, res.Orders)
	if err != nil {
		logger.Fatalf("Ownership resolution failed: %v", err)
	}

	rows, err := ledger.Build(res, table, ledger.Options{})
	if err != nil {
		logger.Fatalf("Ledger reconstruction failed: %v", err)
	}

	snap := &stats.Snapshot{
		SnapshotID:     idhash.SnapshotID(mtime.Unix(), res.GameTime),
		GameTime:       res.GameTime,
		Table:          table,
		Rows:           rows,
		SourcePath:     path,
		SourceMTime:    mtime,
		LoadedAt:       time.Now(),
		SkippedEntries: res.SkippedEntries,
	}

	orders := domain.DefaultEcoOrders()
	if list := splitList(*ecoOrders); list != nil {
		orders = list
	}

	gen := reporting.NewGenerator(*idleHours, orders)
	report := gen.Generate(snap)
	if err := gen.WriteFiles(report, *outputDir); err != nil {
		logger.Fatalf("Failed to write reports: %v", err)
	}

	logger.Printf("Report written to %s (game time %.2fh, profit %.0f, %d entities)",
		filepath.Clean(*outputDir), report.GameTimeHours, report.TotalProfit, report.EntityCount)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
