package runlock_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orchive/internal/runlock"
)

func TestAcquireCreatesLockFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	lock, err := runlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lock.Release()

	if lock.Path() != filepath.Join(dir, runlock.FileName) {
		t.Fatalf("unexpected lock path %q", lock.Path())
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}
}

func TestAcquireRejectsSecondHolder(t *testing.T) {
	dir := t.TempDir()
	first, err := runlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if _, err := runlock.Acquire(dir); !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	second, err := runlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("second Release should be a no-op, got %v", err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	var lock *runlock.Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
