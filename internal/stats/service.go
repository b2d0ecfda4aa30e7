// Package stats owns the current ledger snapshot and serves every
// aggregated view from it. Reloads are serialized, reads are lock-free.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"x4-ledger/internal/aggregate"
	"x4-ledger/internal/domain"
	"x4-ledger/internal/extract"
	"x4-ledger/internal/idhash"
	"x4-ledger/internal/ledger"
	"x4-ledger/internal/observability"
	"x4-ledger/internal/resolve"
	"x4-ledger/internal/savegame"
	"x4-ledger/internal/storage"
)

// Options configures a Service.
type Options struct {
	// SaveDir is the directory the game writes savegames to.
	SaveDir string
	// StagingPath receives the working copy of the savegame.
	StagingPath string

	// EcoOrders is the default-order set that marks an entity as a
	// trader or miner. Nil selects the defaults.
	EcoOrders []string
	// MutationTypes selects the money log entry types reconstructed as
	// ledger rows. Nil selects the defaults.
	MutationTypes []string

	// Archive, when set, receives every loaded snapshot. Archive errors
	// are logged and counted but never fail a reload.
	Archive storage.LedgerArchive

	Logger *log.Logger

	// OnReload is invoked after each successful snapshot swap.
	OnReload func(*Snapshot)
}

// Service loads savegames into snapshots and answers queries against the
// current one.
type Service struct {
	acquirer  *savegame.Acquirer
	extractor *extract.Extractor

	ecoOrders     []string
	mutationTypes []string
	archive       storage.LedgerArchive
	logger        *log.Logger
	onReload      func(*Snapshot)

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
}

// NewService creates a Service. No savegame is loaded yet; call
// ReloadIfNew before serving.
func NewService(opts Options) *Service {
	ecoOrders := opts.EcoOrders
	if ecoOrders == nil {
		ecoOrders = domain.DefaultEcoOrders()
	}
	mutationTypes := opts.MutationTypes
	if mutationTypes == nil {
		mutationTypes = domain.DefaultMutationTypes()
	}

	return &Service{
		acquirer:      savegame.New(opts.SaveDir, opts.StagingPath, opts.Logger),
		extractor:     extract.NewExtractor(opts.Logger),
		ecoOrders:     ecoOrders,
		mutationTypes: mutationTypes,
		archive:       opts.Archive,
		logger:        opts.Logger,
		onReload:      opts.OnReload,
	}
}

// ReloadIfNew checks the watch directory and, when a new stable savegame
// exists, loads it and swaps the snapshot. Returns true when a swap
// happened. A failed reload leaves the previous snapshot serving.
func (s *Service) ReloadIfNew(ctx context.Context) (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	staged, err := s.acquirer.Check()
	if err != nil {
		return false, err
	}
	if staged == nil {
		return false, nil
	}

	start := time.Now()
	snap, err := s.load(staged)
	if err != nil {
		observability.RecordReload("error", time.Since(start).Seconds())
		return false, fmt.Errorf("load savegame %s: %w", staged.Source, err)
	}

	if s.archive != nil {
		s.archiveSnapshot(ctx, snap)
	}

	s.current.Store(snap)
	observability.RecordReload("success", time.Since(start).Seconds())
	observability.AddSkippedEntries(snap.SkippedEntries)
	observability.RecordSnapshot(len(snap.Rows), len(snap.Table.Entities), snap.GameTime, snap.LoadedAt.Unix())

	if s.logger != nil {
		s.logger.Printf("snapshot %s loaded: game time %.0fs, %d entities, %d ledger rows",
			snap.SnapshotID[:12], snap.GameTime, len(snap.Table.Entities), len(snap.Rows))
	}
	if s.onReload != nil {
		s.onReload(snap)
	}
	return true, nil
}

// load runs the full pipeline against one staged savegame.
func (s *Service) load(staged *savegame.Staged) (*Snapshot, error) {
	res, err := s.extractor.ExtractFile(staged.Path)
	if err != nil {
		return nil, err
	}

	table, err := resolve.Resolve(res.Entities, res.Connections, res.Orders)
	if err != nil {
		return nil, err
	}

	rows, err := ledger.Build(res, table, ledger.Options{MutationTypes: s.mutationTypes})
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SnapshotID:     idhash.SnapshotID(staged.MTime.Unix(), res.GameTime),
		GameTime:       res.GameTime,
		Table:          table,
		Rows:           rows,
		SourcePath:     staged.Source,
		SourceMTime:    staged.MTime,
		LoadedAt:       time.Now(),
		SkippedEntries: res.SkippedEntries,
	}, nil
}

// archiveSnapshot writes the snapshot to the archive. A duplicate snapshot
// id means this exact savegame was archived before and is a no-op.
func (s *Service) archiveSnapshot(ctx context.Context, snap *Snapshot) {
	arch := &domain.ArchivedSnapshot{
		SnapshotID:  snap.SnapshotID,
		GameTime:    snap.GameTime,
		SourceMTime: snap.SourceMTime.Unix(),
		LoadedAt:    snap.LoadedAt,
		Rows:        make([]*domain.ArchivedRow, 0, len(snap.Rows)),
	}
	for i, row := range snap.Rows {
		arch.Rows = append(arch.Rows, &domain.ArchivedRow{
			RowID:      idhash.RowID(snap.SnapshotID, i, row.EntityID, row.Time),
			SnapshotID: snap.SnapshotID,
			LedgerRow:  row,
		})
	}

	err := s.archive.InsertSnapshot(ctx, arch)
	switch {
	case err == nil:
		observability.RecordSnapshotWritten()
	case errors.Is(err, storage.ErrDuplicateKey):
		// Same savegame archived on a previous run.
	default:
		observability.RecordArchiveError()
		if s.logger != nil {
			s.logger.Printf("warning: archive write for snapshot %s failed: %v", snap.SnapshotID[:12], err)
		}
	}
}

// Current returns the serving snapshot, or nil before the first load.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// GameTimeSeconds returns the in-game clock of the current snapshot.
func (s *Service) GameTimeSeconds() float64 {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return snap.GameTime
}

// SalesRows returns ledger rows, optionally restricted to the last hours
// of game time and to nonzero values.
func (s *Service) SalesRows(hours *int, excludeZero bool) []domain.LedgerRow {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return aggregate.FilterByRecency(snap.Rows, hours, excludeZero)
}

// SalesRowsSorted returns SalesRows ordered by entity name, then time.
func (s *Service) SalesRowsSorted(hours *int, excludeZero bool) []domain.LedgerRow {
	rows := s.SalesRows(hours, excludeZero)
	sorted := make([]domain.LedgerRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// PerEntity returns the per-entity aggregation.
func (s *Service) PerEntity(hours *int) []domain.Aggregate {
	return aggregate.PerEntity(s.SalesRows(hours, false))
}

// PerCommander returns the per-commander aggregation.
func (s *Service) PerCommander(hours *int) []domain.Aggregate {
	return aggregate.PerCommander(s.SalesRows(hours, false))
}

// IdleAssets returns trade- or mine-tasked ships without value in the last
// hours of game time.
func (s *Service) IdleAssets(hours int) []domain.Aggregate {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return aggregate.IdleAssets(snap.Rows, hours, s.ecoOrders)
}

// TotalProfit sums the value column over the filtered ledger.
func (s *Service) TotalProfit(hours *int) float64 {
	return aggregate.TotalProfit(s.SalesRows(hours, false))
}

// Status describes the serving state.
func (s *Service) Status() Status {
	snap := s.current.Load()
	if snap == nil {
		return Status{}
	}
	return Status{
		Loaded:          true,
		SnapshotID:      snap.SnapshotID,
		GameTimeSeconds: snap.GameTime,
		GameTimeHours:   math.Round(snap.GameTime/3600*100) / 100,
		SourcePath:      snap.SourcePath,
		LoadedAt:        snap.LoadedAt,
		LedgerRows:      len(snap.Rows),
		Entities:        len(snap.Table.Entities),
		SkippedEntries:  snap.SkippedEntries,
	}
}
