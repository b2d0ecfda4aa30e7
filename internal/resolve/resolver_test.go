package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4-ledger/internal/domain"
)

func testRecords() []domain.RawEntityRecord {
	return []domain.RawEntityRecord{
		{ID: "[0x1]", Class: "player", Name: "Avatar", Code: "PLY-001"},
		{ID: "[0x100]", Class: "station", Macro: "station_arg_factory", Name: "Wheat Farm", Code: "ABC-123"},
		{ID: "[0x200]", Class: "ship_m", Macro: "ship_arg_trader", Name: "Hauler", Code: "DEF-456"},
		{ID: "[0x300]", Class: "ship_s", Macro: "ship_arg_scout", Code: "GHI-789"},
		{ID: "[0x400]", Class: "dockarea", Name: "Pier"},
	}
}

func TestResolveLinksShipToStation(t *testing.T) {
	conns := []domain.RawConnection{
		{OwnerID: "[0x100]", Type: domain.ConnSubordinates, ConnectionID: "[0xc1]", ConnectedID: "[0x200]"},
		{OwnerID: "[0x200]", Type: domain.ConnCommander, ConnectionID: "[0xd1]", ConnectedID: "[0xc1]"},
	}
	orders := []domain.RawOrder{{OwnerID: "[0x200]", Order: "TradeRoutine"}}

	table, err := Resolve(testRecords(), conns, orders)
	require.NoError(t, err)

	assert.Equal(t, "[0x1]", table.PlayerID)
	// Unrecognized class dropped.
	require.Len(t, table.Entities, 4)
	assert.False(t, table.Owned("[0x400]"))

	hauler := table.Lookup("[0x200]")
	require.NotNil(t, hauler)
	assert.Equal(t, "[0x100]", hauler.CommanderID)
	assert.Equal(t, "Wheat Farm", hauler.CommanderName)
	require.NotNil(t, hauler.DefaultOrder)
	assert.Equal(t, "TradeRoutine", *hauler.DefaultOrder)
}

func TestResolveSelfCommandCases(t *testing.T) {
	conns := []domain.RawConnection{
		// Single commander connection pointing nowhere a station exposes.
		{OwnerID: "[0x200]", Type: domain.ConnCommander, ConnectionID: "[0xd1]", ConnectedID: "[0xff]"},
		// Two commander connections on the scout.
		{OwnerID: "[0x300]", Type: domain.ConnCommander, ConnectionID: "[0xd2]", ConnectedID: "[0xc1]"},
		{OwnerID: "[0x300]", Type: domain.ConnCommander, ConnectionID: "[0xd3]", ConnectedID: "[0xc2]"},
	}

	table, err := Resolve(testRecords(), conns, nil)
	require.NoError(t, err)

	hauler := table.Lookup("[0x200]")
	assert.Equal(t, "[0x200]", hauler.CommanderID, "unmatched commander connection falls back to self")
	assert.Equal(t, "Hauler", hauler.CommanderName)

	scout := table.Lookup("[0x300]")
	assert.Equal(t, "[0x300]", scout.CommanderID, "ambiguous commander connections fall back to self")

	station := table.Lookup("[0x100]")
	assert.Equal(t, "[0x100]", station.CommanderID, "stations command themselves")
	assert.Equal(t, "Wheat Farm", station.CommanderName)
}

func TestResolveNameFallsBackToCode(t *testing.T) {
	table, err := Resolve(testRecords(), nil, nil)
	require.NoError(t, err)

	scout := table.Lookup("[0x300]")
	require.NotNil(t, scout)
	assert.Equal(t, "GHI-789", scout.Name)
}

func TestResolveLastOrderWins(t *testing.T) {
	orders := []domain.RawOrder{
		{OwnerID: "[0x200]", Order: "MiningRoutine"},
		{OwnerID: "[0x200]", Order: "TradeRoutine"},
	}
	table, err := Resolve(testRecords(), nil, orders)
	require.NoError(t, err)

	hauler := table.Lookup("[0x200]")
	require.NotNil(t, hauler.DefaultOrder)
	assert.Equal(t, "TradeRoutine", *hauler.DefaultOrder)
}

func TestResolveNoPlayerEntity(t *testing.T) {
	records := []domain.RawEntityRecord{
		{ID: "[0x100]", Class: "station", Name: "Wheat Farm"},
	}
	_, err := Resolve(records, nil, nil)
	assert.ErrorIs(t, err, ErrNoPlayerEntity)
}
