package runlock_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"chrononame/internal/runlock"
)

func TestAcquireIsExclusivePerDirectory(t *testing.T) {
	lockDir := t.TempDir()
	target := t.TempDir()

	first, err := runlock.Acquire(lockDir, target)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := runlock.Acquire(lockDir, target); !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	other, err := runlock.Acquire(lockDir, t.TempDir())
	if err != nil {
		t.Fatalf("unrelated directory should lock independently: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := runlock.Acquire(lockDir, target)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestPathForNormalizesDirectory(t *testing.T) {
	lockDir := t.TempDir()
	target := t.TempDir()

	a, err := runlock.PathFor(lockDir, target)
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	b, err := runlock.PathFor(lockDir, filepath.Join(target, "sub", ".."))
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	if a != b {
		t.Fatalf("expected equal lock paths, got %q and %q", a, b)
	}
	if filepath.Dir(a) != lockDir || !strings.HasSuffix(a, ".lock") {
		t.Fatalf("unexpected lock path %q", a)
	}
	if len(filepath.Base(a)) != len("0123456789abcdef.lock") {
		t.Fatalf("unexpected lock name %q", filepath.Base(a))
	}
}

func TestReleaseNilLock(t *testing.T) {
	var l *runlock.Lock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil lock: %v", err)
	}
}
