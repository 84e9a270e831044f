package tasks

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/classificone/internal/shared"
	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// FileLocker implements [PartitionLocker] with one lock file per partition under dir.
type FileLocker struct {
	dir     string
	timeout time.Duration
}

// NewFileLocker creates a locker that waits at most timeout for a partition.
func NewFileLocker(dir string, timeout time.Duration) *FileLocker {
	return &FileLocker{dir: dir, timeout: timeout}
}

// Lock blocks until partition is free, ctx is done, or the timeout elapses.
func (l *FileLocker) Lock(ctx context.Context, partition string) (func(), error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := filepath.Join(l.dir, "ledger-"+lockName(partition)+".lock")
	fl := flock.New(path)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return nil, fmt.Errorf("%w: %s after %s", shared.ErrLockTimeout, path, l.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}

	return func() { _ = fl.Unlock() }, nil
}

// lockName keeps partition names usable as file names. Names made only of [A-Za-z0-9_-] are
// used as is; any other name is hex encoded behind an "x." prefix, which no plain name can carry.
func lockName(partition string) string {
	plain := partition != "" && strings.IndexFunc(partition, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return false
		default:
			return true
		}
	}) < 0
	if plain {
		return partition
	}
	return "x." + hex.EncodeToString([]byte(partition))
}
