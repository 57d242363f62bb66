// Package runlock prevents two runs from working on one directory at once.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the directory's lock.
var ErrLocked = errors.New("directory is locked by another run")

// Lock is a held directory lock.
type Lock struct {
	path  string
	dir   string
	flock *flock.Flock
}

// PathFor returns the lock file used for dir under lockDir. The name is derived
// from the absolute directory path so unrelated directories never share a lock.
func PathFor(lockDir, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", dir, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])[:16]+".lock"), nil
}

// Acquire takes the lock for dir without blocking.
func Acquire(lockDir, dir string) (*Lock, error) {
	path, err := PathFor(lockDir, dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &Lock{path: path, dir: dir, flock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file is left in place for reuse.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock for %s: %w", l.dir, err)
	}
	return nil
}
