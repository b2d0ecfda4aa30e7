package domain

// Connection types that carry command-hierarchy information. All other
// connection elements in the component tree are ignored.
const (
	ConnSubordinates = "subordinates"
	ConnCommander    = "commander"
)

// RawEntityRecord carries the attributes of a player-owned component exactly
// as they appear in the savegame, before class filtering and resolution.
type RawEntityRecord struct {
	ID    string
	Class string
	Macro string // template name, becomes Entity.Type
	Name  string
	Code  string
}

// RawConnection is one command-hierarchy link found under a player-owned
// component. Stations expose subordinate connections (matched by
// ConnectionID); ships expose commander connections whose <connected> child
// references the station-side connection (ConnectedID).
type RawConnection struct {
	OwnerID      string // entity the connection was found under
	Type         string // ConnSubordinates or ConnCommander
	ConnectionID string // id attribute of the <connection> element
	ConnectedID  string // connection attribute of the <connected> child
}

// RawOrder records a default-flagged standing order found under a
// player-owned component.
type RawOrder struct {
	OwnerID string
	Order   string
}

// RawTradeEvent is one trade-log entry. Prices are in minor units (cents);
// entries without a price attribute never reach this type.
type RawTradeEvent struct {
	Time   float64 // game-clock seconds
	Seller string
	Buyer  string // optional
	Ware   string
	Price  float64 // unit price, minor units
	Volume float64
}

// RawMoneyEvent is one money-mutation-log entry. Value is the owner's
// cumulative account balance in minor units, NOT a delta; nil when the
// entry carried no value attribute. Entries from condensed log blocks are
// dropped at extraction and never reach this type.
type RawMoneyEvent struct {
	Time    float64
	Type    string // e.g. "transfer", "restock", "sellship"
	OwnerID string
	Value   *float64
	Partner string // optional counter-party
}
