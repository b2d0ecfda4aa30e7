package domain

// DefaultEcoOrders returns the standing-order names that count as economic
// activity for the idle-asset view. The list is game-version specific
// (including the doubled-t "TradeRouttine" spellings, which are literal
// order names in the affected versions) and can be overridden from
// configuration; this is only the shipped default.
func DefaultEcoOrders() []string {
	return []string{
		"MiningRoutine_Basic",
		"MiningRoutine",
		"MiningRoutine_Advanced",
		"MiddleMan",
		"TradeRoutine",
		"TradeRouttine_Basic",
		"TradeRouttine_Advanced",
		"FindBuildTasks",
	}
}

// DefaultMutationTypes returns the money-mutation types that produce ledger
// rows. Like the eco-order list this is versioned game data with a shipped
// default, overridable from configuration.
func DefaultMutationTypes() []string {
	return []string{"transfer", "sellship", "restock"}
}
