package domain

// LedgerRow is one normalized, signed financial event attributable to one
// entity. It is the unified schema produced by ledger reconstruction and
// consumed by aggregation.
//
// Invariant: Value == Revenue - Cost, with Cost stored as a non-negative
// magnitude. All monetary fields are in major units (credits).
type LedgerRow struct {
	EntityID      string  `json:"entity_id"`
	EntityType    string  `json:"entity_type"`
	Class         Class   `json:"class"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	CommanderName string  `json:"commander_name"`
	DefaultOrder  *string `json:"default_order,omitempty"`

	Time float64 `json:"time"` // game-clock seconds
	Ware string  `json:"ware,omitempty"`

	Value   float64 `json:"value"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Volume  float64 `json:"volume"`

	// HoursSinceEvent is floor((gameTime - Time) / 3600): 0 for events in
	// the most recent hour bucket, increasing going back in time.
	HoursSinceEvent int `json:"hours_since_event"`
}
