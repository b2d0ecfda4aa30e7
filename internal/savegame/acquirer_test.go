package savegame

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSave(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("save-"+name), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeSave(t, dir, "quicksave.xml.gz", base)
	newest := writeSave(t, dir, "save_001.xml.gz", base.Add(10*time.Minute))
	writeSave(t, dir, "notes.txt", base.Add(time.Hour))

	path, mtime, err := FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, newest, path)
	assert.WithinDuration(t, base.Add(10*time.Minute), mtime, time.Second)
}

func TestFindLatestEmpty(t *testing.T) {
	dir := t.TempDir()
	_, _, err := FindLatest(dir)
	assert.ErrorIs(t, err, ErrNoSavegame)
}

func TestCheckFirstCallAcceptsFreshFile(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(t.TempDir(), "staged.xml.gz")

	// Fresh mtime: the stability window does not apply to the first call.
	writeSave(t, dir, "quicksave.xml.gz", time.Now())

	a := New(dir, staging, nil)
	staged, err := a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)
	assert.Equal(t, staging, staged.Path)

	data, err := os.ReadFile(staging)
	require.NoError(t, err)
	assert.Equal(t, "save-quicksave.xml.gz", string(data))
}

func TestCheckIdempotentWithoutNewSave(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(t.TempDir(), "staged.xml.gz")
	writeSave(t, dir, "quicksave.xml.gz", time.Now().Add(-time.Minute))

	a := New(dir, staging, nil)
	staged, err := a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)

	staged, err = a.Check()
	require.NoError(t, err)
	assert.Nil(t, staged)
}

func TestCheckDefersUnstableFile(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(t.TempDir(), "staged.xml.gz")

	now := time.Now()
	writeSave(t, dir, "quicksave.xml.gz", now.Add(-time.Hour))

	a := New(dir, staging, nil)
	a.now = func() time.Time { return now }

	staged, err := a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)

	// Overwrite with an mtime inside the stability window.
	writeSave(t, dir, "quicksave.xml.gz", now.Add(-3*time.Second))
	staged, err = a.Check()
	require.NoError(t, err)
	assert.Nil(t, staged, "file modified within the stability window must be deferred")

	// Advance the clock past the window.
	a.now = func() time.Time { return now.Add(30 * time.Second) }
	staged, err = a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)
}

func TestCheckPicksNewerSave(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(t.TempDir(), "staged.xml.gz")

	now := time.Now()
	writeSave(t, dir, "save_001.xml.gz", now.Add(-time.Hour))

	a := New(dir, staging, nil)
	a.now = func() time.Time { return now }

	staged, err := a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)
	assert.Contains(t, staged.Source, "save_001")

	writeSave(t, dir, "save_002.xml.gz", now.Add(-time.Minute))
	staged, err = a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)
	assert.Contains(t, staged.Source, "save_002")

	data, err := os.ReadFile(staging)
	require.NoError(t, err)
	assert.Equal(t, "save-save_002.xml.gz", string(data))
}

func TestStageSameFileIsNoOp(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	path := writeSave(t, dir, "quicksave.xml.gz", now.Add(-time.Hour))

	// Staging path equals the source: nothing to copy.
	a := New(dir, path, nil)
	a.now = func() time.Time { return now }

	staged, err := a.Check()
	require.NoError(t, err)
	require.NotNil(t, staged)
	assert.Equal(t, path, staged.Path)
}
