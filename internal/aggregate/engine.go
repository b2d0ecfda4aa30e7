// Package aggregate folds ledger rows into per-entity and per-commander
// summaries and derives the idle-asset and total-profit views.
package aggregate

import (
	"math"
	"sort"

	"x4-ledger/internal/domain"
)

// FilterByRecency keeps rows within the last hours of game time, optionally
// dropping zero-value rows. A nil hours pointer keeps the full history.
// Hours count from zero, so "the last hour" keeps hours_since_event <= 0.
func FilterByRecency(rows []domain.LedgerRow, hours *int, excludeZero bool) []domain.LedgerRow {
	if hours == nil && !excludeZero {
		return rows
	}

	out := make([]domain.LedgerRow, 0, len(rows))
	for _, r := range rows {
		if hours != nil && r.HoursSinceEvent > *hours-1 {
			continue
		}
		if excludeZero && r.Value == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PerEntity groups rows by entity and sums their value, revenue, cost and
// volume. Grouping uses the entity id; the descriptive attributes are
// constant per entity within one ledger. Output order is stable: entities
// appear in first-row order.
func PerEntity(rows []domain.LedgerRow) []domain.Aggregate {
	var (
		order []string
		byID  = make(map[string]*domain.Aggregate)
	)
	for _, r := range rows {
		agg, ok := byID[r.EntityID]
		if !ok {
			agg = &domain.Aggregate{
				EntityID:      r.EntityID,
				EntityType:    r.EntityType,
				Class:         r.Class,
				Name:          r.Name,
				Code:          r.Code,
				CommanderName: r.CommanderName,
				DefaultOrder:  r.DefaultOrder,
			}
			byID[r.EntityID] = agg
			order = append(order, r.EntityID)
		}
		agg.Value += r.Value
		agg.Revenue += r.Revenue
		agg.Cost += r.Cost
		agg.Volume += r.Volume
	}

	out := make([]domain.Aggregate, 0, len(order))
	for _, id := range order {
		out = append(out, finish(*byID[id]))
	}
	return out
}

// PerCommander groups rows by commander name, so a station's own rows and
// the rows of all its subordinate ships land in one bucket. Output is
// sorted by commander name.
func PerCommander(rows []domain.LedgerRow) []domain.Aggregate {
	byName := make(map[string]*domain.Aggregate)
	for _, r := range rows {
		agg, ok := byName[r.CommanderName]
		if !ok {
			agg = &domain.Aggregate{CommanderName: r.CommanderName}
			byName[r.CommanderName] = agg
		}
		agg.Value += r.Value
		agg.Revenue += r.Revenue
		agg.Cost += r.Cost
		agg.Volume += r.Volume
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.Aggregate, 0, len(names))
	for _, name := range names {
		out = append(out, finish(*byName[name]))
	}
	return out
}

// IdleAssets returns ships that carry a trade or mining order yet produced
// no value in the last hours of game time.
func IdleAssets(rows []domain.LedgerRow, hours int, ecoOrders []string) []domain.Aggregate {
	aggs := PerEntity(FilterByRecency(rows, &hours, false))

	var out []domain.Aggregate
	for _, a := range aggs {
		if !a.Class.IsShip() || a.Value != 0 {
			continue
		}
		if a.DefaultOrder == nil || !containsString(ecoOrders, *a.DefaultOrder) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// TotalProfit sums row values over the filtered ledger.
func TotalProfit(rows []domain.LedgerRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Value
	}
	return total
}

// finish derives the margin and rounds the summary columns. The margin is
// normalized before clamping: a bucket without revenue reports zero, a
// bucket whose costs exceed twice its revenue reports -1.
func finish(a domain.Aggregate) domain.Aggregate {
	var margin float64
	if a.Revenue != 0 {
		margin = (a.Revenue - a.Cost) / a.Revenue
		if margin < -1 {
			margin = -1
		}
	}

	a.Value = roundTo(a.Value, 0)
	a.Revenue = roundTo(a.Revenue, 0)
	a.Cost = roundTo(a.Cost, 0)
	a.Volume = roundTo(a.Volume, 0)
	a.Margin = roundTo(margin, 4)
	return a
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
