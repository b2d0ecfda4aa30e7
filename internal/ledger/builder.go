// Package ledger reconstructs a per-event economic ledger from the
// extracted raw facts. Every row carries an independent value, revenue and
// cost so downstream aggregation is a plain sum.
package ledger

import (
	"errors"
	"math"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/extract"
	"x4-ledger/internal/resolve"
)

// ErrNoLedgerRows is returned when reconstruction yields an empty ledger.
// With placeholder rows for every resolved entity this only happens when
// the savegame held no player assets at all.
var ErrNoLedgerRows = errors.New("ledger reconstruction produced no rows")

// Options controls reconstruction.
type Options struct {
	// MutationTypes is the set of money log entry types turned into
	// ledger rows. Nil selects the defaults.
	MutationTypes []string
}

// Build reconstructs the ledger from one extraction pass.
//
// Rows come from three sources: trade legs for player-owned sellers and
// buyers, zero-value placeholder rows pinning every resolved entity to the
// ledger, and account mutations derived from station balance samples.
func Build(res *extract.Result, table *resolve.Table, opts Options) ([]domain.LedgerRow, error) {
	mutationTypes := opts.MutationTypes
	if mutationTypes == nil {
		mutationTypes = domain.DefaultMutationTypes()
	}

	var rows []domain.LedgerRow

	for _, trade := range res.Trades {
		gross := trade.Volume * trade.Price / 100

		if table.Owned(trade.Seller) {
			rows = append(rows, newRow(table, res.GameTime, trade.Seller, trade.Time, trade.Ware,
				gross, gross, 0, trade.Volume))
		}
		if table.Owned(trade.Buyer) {
			rows = append(rows, newRow(table, res.GameTime, trade.Buyer, trade.Time, trade.Ware,
				-gross, 0, gross, trade.Volume))
		}
	}

	// Placeholder rows keep idle entities visible in every aggregation.
	for _, ent := range table.Entities {
		rows = append(rows, newRow(table, res.GameTime, ent.ID, res.GameTime, "", 0, 0, 0, 0))
	}

	rows = append(rows, accountMutations(res, table, mutationTypes)...)

	if len(rows) == 0 {
		return nil, ErrNoLedgerRows
	}
	return rows, nil
}

// newRow builds a ledger row enriched with the owning entity's attributes.
func newRow(table *resolve.Table, gameTime float64, entityID string, eventTime float64,
	ware string, value, revenue, cost, volume float64) domain.LedgerRow {

	row := domain.LedgerRow{
		EntityID:        entityID,
		Time:            eventTime,
		Ware:            ware,
		Value:           value,
		Revenue:         revenue,
		Cost:            cost,
		Volume:          volume,
		HoursSinceEvent: int(math.Floor((gameTime - eventTime) / 3600)),
	}

	if ent := table.Lookup(entityID); ent != nil {
		row.EntityType = ent.Type
		row.Class = ent.Class
		row.Name = ent.Name
		row.Code = ent.Code
		row.CommanderName = ent.CommanderName
		row.DefaultOrder = ent.DefaultOrder
	}
	return row
}
