package ledger

import (
	"sort"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/extract"
	"x4-ledger/internal/resolve"
)

// mutation is a balance sample prepared for diffing.
type mutation struct {
	time    float64
	typ     string
	ownerID string
	balance float64
	delta   float64
}

// accountMutations reconstructs revenue and cost rows from station account
// balance samples. The money log records cumulative balances in cents, so
// the actual mutation is the difference between consecutive samples of the
// same owner; the first sample of each owner carries a zero delta because
// there is nothing to diff against.
func accountMutations(res *extract.Result, table *resolve.Table, mutationTypes []string) []domain.LedgerRow {
	muts := make([]mutation, 0, len(res.Money))
	for _, m := range res.Money {
		if m.Value == nil || !table.Owned(m.OwnerID) {
			continue
		}
		muts = append(muts, mutation{
			time:    m.Time,
			typ:     m.Type,
			ownerID: m.OwnerID,
			balance: *m.Value,
		})
	}

	sort.SliceStable(muts, func(i, j int) bool {
		if muts[i].ownerID != muts[j].ownerID {
			return muts[i].ownerID < muts[j].ownerID
		}
		return muts[i].time < muts[j].time
	})

	for i := range muts {
		if i == 0 || muts[i].ownerID != muts[i-1].ownerID {
			continue
		}
		muts[i].delta = muts[i].balance/100 - muts[i-1].balance/100
	}

	selected := make(map[string]bool, len(mutationTypes))
	for _, t := range mutationTypes {
		selected[t] = true
	}

	var rows []domain.LedgerRow
	for _, m := range muts {
		if !selected[m.typ] || m.ownerID == table.PlayerID {
			continue
		}

		revenue, cost := 0.0, 0.0
		if m.delta >= 0 {
			revenue = m.delta
		} else {
			cost = -m.delta
		}

		// The mutation type stands in for the ware so the rows group
		// naturally in per-ware views.
		rows = append(rows, newRow(table, res.GameTime, m.ownerID, m.time, m.typ,
			m.delta, revenue, cost, 0))
	}
	return rows
}
