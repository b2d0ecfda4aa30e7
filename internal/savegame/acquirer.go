// Package savegame locates and stages compressed savegame snapshots from a
// watch directory.
package savegame

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSavegame is returned when the watch directory contains no compressed
// savegame at all. This is a configuration error: the process must not
// start against an empty directory.
var ErrNoSavegame = errors.New("no compressed savegame found in watch directory")

// writeStability is how long a candidate file's mtime must lie in the past
// before it is trusted. The game overwrites the save in place; a very fresh
// mtime usually means the write is still in progress.
const writeStability = 10 * time.Second

// Staged describes a savegame that was accepted and copied to the staging
// path.
type Staged struct {
	// Path is the staging copy to parse.
	Path string
	// Source is the original file in the watch directory.
	Source string
	// MTime is the source file's modification time at acceptance.
	MTime time.Time
}

// Acquirer watches a directory for new savegames and stages working copies.
// It is not safe for concurrent use; callers serialize through the reload
// path.
type Acquirer struct {
	dir         string
	stagingPath string
	logger      *log.Logger

	lastMTime time.Time

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates an Acquirer for the given watch directory and staging path.
func New(dir, stagingPath string, logger *log.Logger) *Acquirer {
	return &Acquirer{
		dir:         dir,
		stagingPath: stagingPath,
		logger:      logger,
		now:         time.Now,
	}
}

// FindLatest returns the most recently modified .gz file in dir.
// Returns ErrNoSavegame if none exists.
func FindLatest(dir string) (string, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("read watch directory %s: %w", dir, err)
	}

	var (
		best      string
		bestMTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".gz") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMTime) {
			best = filepath.Join(dir, entry.Name())
			bestMTime = info.ModTime()
		}
	}

	if best == "" {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNoSavegame, dir)
	}
	return best, bestMTime, nil
}

// Check looks for a new, stable savegame and stages it. Returns nil when
// nothing new was found. A candidate is accepted when its mtime is strictly
// newer than the last accepted one and the file has been quiet for the
// stability window; the very first call accepts the newest file as-is.
// Idempotent: repeated calls without a new save are no-ops.
func (a *Acquirer) Check() (*Staged, error) {
	src, mtime, err := FindLatest(a.dir)
	if err != nil {
		return nil, err
	}

	if !a.lastMTime.IsZero() {
		if !mtime.After(a.lastMTime) {
			return nil, nil
		}
		if a.now().Sub(mtime) <= writeStability {
			// Likely still being written, pick it up next poll.
			return nil, nil
		}
	}

	if err := a.stage(src); err != nil {
		return nil, err
	}
	a.lastMTime = mtime

	if a.logger != nil {
		a.logger.Printf("new savegame staged: %s (mtime %s)", src, mtime.Format(time.RFC3339))
	}
	return &Staged{Path: a.stagingPath, Source: src, MTime: mtime}, nil
}

// stage copies src to the staging path, replacing whatever is there.
// Copying src onto itself is a no-op.
func (a *Acquirer) stage(src string) error {
	if sameFile(src, a.stagingPath) {
		return nil
	}

	if dir := filepath.Dir(a.stagingPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create staging directory: %w", err)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open savegame %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(a.stagingPath)
	if err != nil {
		return fmt.Errorf("create staging file %s: %w", a.stagingPath, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy savegame to staging: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return nil
}

// sameFile reports whether two paths refer to the same file on disk.
func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
