package domain

// Aggregate is the summed view over a set of ledger rows for one grouping
// key: either a single entity or a whole command group. Monetary sums are
// rounded to whole credits, margin to 4 decimals.
type Aggregate struct {
	// Entity identity. Empty for per-commander aggregates, which group by
	// CommanderName only.
	EntityID     string  `json:"entity_id,omitempty"`
	EntityType   string  `json:"entity_type,omitempty"`
	Class        Class   `json:"class,omitempty"`
	Name         string  `json:"name,omitempty"`
	Code         string  `json:"code,omitempty"`
	DefaultOrder *string `json:"default_order,omitempty"`

	CommanderName string `json:"commander_name"`

	Value   float64 `json:"value"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Volume  float64 `json:"volume"`

	// Margin is (revenue-cost)/revenue, 0 when revenue is zero, clamped
	// to -1 from below.
	Margin float64 `json:"margin"`
}
