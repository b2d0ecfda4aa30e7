package idhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotID_Deterministic(t *testing.T) {
	a := SnapshotID(1700000000, 123456.5)
	b := SnapshotID(1700000000, 123456.5)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestSnapshotID_DiffersByInput(t *testing.T) {
	a := SnapshotID(1700000000, 123456.5)
	b := SnapshotID(1700000001, 123456.5)
	c := SnapshotID(1700000000, 123456.6)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRowID_IndexDisambiguates(t *testing.T) {
	snap := SnapshotID(1700000000, 123456.5)

	// Two identical trades in the same second for the same entity must
	// still get distinct row ids.
	a := RowID(snap, 4, "[0x39312]", 90000)
	b := RowID(snap, 5, "[0x39312]", 90000)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)

	// Same inputs, same id.
	assert.Equal(t, a, RowID(snap, 4, "[0x39312]", 90000))
}
