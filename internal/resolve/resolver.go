// Package resolve turns raw component records into a table of player assets
// with command relationships attached.
package resolve

import (
	"errors"
	"fmt"

	"x4-ledger/internal/domain"
)

// ErrNoPlayerEntity is returned when no player avatar component exists in
// the extracted records. Account mutation attribution depends on it.
var ErrNoPlayerEntity = errors.New("no player avatar entity found")

// Table is the resolved set of player-owned entities.
type Table struct {
	// Entities in extraction order.
	Entities []*domain.Entity
	// PlayerID is the avatar component id.
	PlayerID string

	byID map[string]*domain.Entity
}

// Lookup returns the entity with the given id, or nil.
func (t *Table) Lookup(id string) *domain.Entity {
	return t.byID[id]
}

// Owned reports whether the id belongs to a player asset.
func (t *Table) Owned(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Resolve builds the entity table: it filters records to recognized classes,
// attaches connection sets and default orders, then links each ship to its
// commanding station.
//
// A station exposes the ids of its subordinate connection slots. A ship
// exposes the targets of its commander connections. A ship with exactly one
// commander connection whose target matches a station's subordinate slot is
// commanded by that station; in every other case the ship commands itself so
// per-commander grouping always has a bucket for it.
func Resolve(records []domain.RawEntityRecord, conns []domain.RawConnection, orders []domain.RawOrder) (*Table, error) {
	subordinates := make(map[string][]string)
	commanders := make(map[string][]string)
	for _, c := range conns {
		switch c.Type {
		case domain.ConnSubordinates:
			subordinates[c.OwnerID] = append(subordinates[c.OwnerID], c.ConnectionID)
		case domain.ConnCommander:
			commanders[c.OwnerID] = append(commanders[c.OwnerID], c.ConnectedID)
		}
	}

	// Last order wins when a component carries several default orders.
	orderByOwner := make(map[string]string)
	for _, o := range orders {
		orderByOwner[o.OwnerID] = o.Order
	}

	t := &Table{byID: make(map[string]*domain.Entity)}
	for _, rec := range records {
		class := domain.Class(rec.Class)
		if !class.IsRecognized() {
			continue
		}

		name := rec.Name
		if name == "" {
			name = rec.Code
		}

		ent := &domain.Entity{
			ID:    rec.ID,
			Type:  rec.Macro,
			Name:  name,
			Code:  rec.Code,
			Class: class,
		}

		if class == domain.ClassStation {
			ent.SubordinateConnIDs = subordinates[rec.ID]
		}
		if class.IsShip() {
			ent.CommanderConnIDs = commanders[rec.ID]
			if o, ok := orderByOwner[rec.ID]; ok {
				ent.DefaultOrder = &o
			}
		}
		if class == domain.ClassPlayer {
			t.PlayerID = rec.ID
		}

		t.Entities = append(t.Entities, ent)
		t.byID[rec.ID] = ent
	}

	if t.PlayerID == "" {
		return nil, fmt.Errorf("%w among %d records", ErrNoPlayerEntity, len(records))
	}

	linkCommanders(t.Entities)
	return t, nil
}

// linkCommanders runs the second pass over the resolved set.
func linkCommanders(entities []*domain.Entity) {
	for _, ent := range entities {
		if len(ent.CommanderConnIDs) == 1 {
			target := ent.CommanderConnIDs[0]
			for _, cand := range entities {
				if containsString(cand.SubordinateConnIDs, target) {
					ent.CommanderID = cand.ID
					ent.CommanderName = cand.Name
					break
				}
			}
			if ent.CommanderID != "" {
				continue
			}
		}
		// Zero or multiple commander connections, or an unmatched one:
		// the entity is its own commander.
		ent.CommanderID = ent.ID
		ent.CommanderName = ent.Name
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
