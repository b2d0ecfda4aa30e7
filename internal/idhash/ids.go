// Package idhash computes deterministic identifiers for archived snapshots
// and ledger rows using SHA256.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SnapshotID computes a deterministic snapshot id.
// Formula: SHA256(sourceMTime|gameTime)
// Returns hex-encoded hash (64 characters).
func SnapshotID(sourceMTime int64, gameTime float64) string {
	data := fmt.Sprintf("%d|%.6f", sourceMTime, gameTime)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// RowID computes a deterministic row id within a snapshot.
// Formula: SHA256(snapshotID|index|entityID|time)
// The index is the row's position in the reconstructed ledger, which is
// itself deterministic, so identical trades in the same second do not
// collide. Returns hex-encoded hash (64 characters).
func RowID(snapshotID string, index int, entityID string, eventTime float64) string {
	data := fmt.Sprintf("%s|%d|%s|%.6f", snapshotID, index, entityID, eventTime)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
