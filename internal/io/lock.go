package ioutils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gofrs/flock"
)

// ErrTreeLocked is returned when another run holds the lock for a tree.
var ErrTreeLocked = errors.New("another pathtag run is already tagging this directory")

// TreeLock guards a music tree against concurrent pathtag runs.
type TreeLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for base inside lockDir.
//
// The name keeps a readable, sanitized form of the path plus a short hash
// of the absolute path so that distinct trees never collide.
func LockPath(lockDir, base string) (string, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", base, err)
	}
	// A symlinked tree shares the lock of its target.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	sum := sha256.Sum256([]byte(abs))

	name := truncateName(SanitizeFileName(filepath.Base(abs)), maxLockNameLen)
	return filepath.Join(lockDir, fmt.Sprintf("%s-%s.lock", name, hex.EncodeToString(sum[:6]))), nil
}

// maxLockNameLen caps the readable part of a lock file name, in bytes.
const maxLockNameLen = 64

// truncateName cuts name to at most limit bytes without splitting a rune.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// DefaultLockDir is where tree locks live when no directory is given:
// the user cache directory, or the temp directory as a fallback.
func DefaultLockDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pathtag", "locks")
	}
	return filepath.Join(os.TempDir(), "pathtag-locks")
}

// AcquireTreeLock takes the lock for base without blocking.
// The lock file is created in lockDir, never inside the tree itself.
func AcquireTreeLock(lockDir, base string) (*TreeLock, error) {
	if err := EnsureDir(lockDir); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path, err := LockPath(lockDir, base)
	if err != nil {
		return nil, err
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrTreeLocked
	}
	return &TreeLock{lock: fl}, nil
}

// Path returns the lock file path.
func (l *TreeLock) Path() string {
	return l.lock.Path()
}

// Release unlocks the tree.
func (l *TreeLock) Release() error {
	return l.lock.Unlock()
}
