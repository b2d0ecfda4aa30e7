package domain

// Class identifies the savegame component class of a player-owned asset.
type Class string

// Recognized component classes. Everything else in the universe tree is
// ignored by the resolver.
const (
	ClassShipS   Class = "ship_s"
	ClassShipM   Class = "ship_m"
	ClassShipL   Class = "ship_l"
	ClassShipXL  Class = "ship_xl"
	ClassStation Class = "station"
	ClassPlayer  Class = "player"
)

// IsShip reports whether the class is one of the four ship size classes.
func (c Class) IsShip() bool {
	switch c {
	case ClassShipS, ClassShipM, ClassShipL, ClassShipXL:
		return true
	}
	return false
}

// IsRecognized reports whether the class participates in ledger
// reconstruction at all.
func (c Class) IsRecognized() bool {
	return c.IsShip() || c == ClassStation || c == ClassPlayer
}

// Entity is one player-owned ship, station, or the player object itself,
// with its command hierarchy fully resolved.
type Entity struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"` // macro/template name
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Class        Class   `json:"class"`
	DefaultOrder *string `json:"default_order,omitempty"`

	// SubordinateConnIDs holds the station-side connection handles under
	// which subordinate ships attach. Populated for stations only.
	SubordinateConnIDs []string `json:"-"`

	// CommanderConnIDs holds the ship-side references to a commander's
	// subordinate connection. Populated for ships only.
	CommanderConnIDs []string `json:"-"`

	// Resolved commander. An entity with zero or ambiguous commander
	// connections commands itself; the pair is then (ID, Name).
	CommanderID   string `json:"commander_id"`
	CommanderName string `json:"commander_name"`
}

// HasOrder reports whether the entity carries the given standing order name.
func (e *Entity) HasOrder(orders []string) bool {
	if e.DefaultOrder == nil {
		return false
	}
	for _, o := range orders {
		if *e.DefaultOrder == o {
			return true
		}
	}
	return false
}
