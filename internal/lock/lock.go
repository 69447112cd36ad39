// Package lock gives one run exclusive ownership of a project name.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/conn-castle/expofast/internal/messages"
)

// ErrHeld reports that another process owns the lock.
var ErrHeld = errors.New("lock held by another process")

var (
	lockWaitTimeout = 2 * time.Second
	lockPollEvery   = 100 * time.Millisecond
	lockSleep       = time.Sleep
)

// Lock is an exclusive advisory lock on a project name.
type Lock struct {
	path string
	file *os.File
}

// Path returns the lock file path for project name under dir.
func Path(dir string, name string) string {
	return filepath.Join(dir, "."+filepath.Base(name)+".expofast.lock")
}

// Acquire locks project name under dir. It polls briefly and then fails with
// an error matching ErrHeld when another run keeps the lock.
func Acquire(dir string, name string) (*Lock, error) {
	path := Path(dir, name)
	file, err := openLockFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFailedFmt, path, err)
	}

	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := tryLock(file)
		if err == nil {
			if owned(path, file) {
				return &Lock{path: path, file: file}, nil
			}
			// The previous holder unlinked the file we were waiting on.
			_ = unlock(file)
			_ = file.Close()
			if file, err = openLockFile(path); err != nil {
				return nil, fmt.Errorf(messages.LockOpenFailedFmt, path, err)
			}
			if time.Now().After(deadline) {
				_ = file.Close()
				return nil, fmt.Errorf("%w: "+messages.LockHeldFmt, ErrHeld, name, lockWaitTimeout)
			}
			continue
		}
		if !errors.Is(err, ErrHeld) {
			_ = file.Close()
			return nil, fmt.Errorf(messages.LockAcquireFailedFmt, path, err)
		}
		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: "+messages.LockHeldFmt, ErrHeld, name, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}

// owned reports whether file is still the file at path. A lock taken on an
// unlinked file excludes nobody.
func owned(path string, file *os.File) bool {
	held, err := file.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, current)
}

// Release unlocks and removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	// Remove while still holding the lock. A waiter that already opened this
	// file notices the unlink in Acquire and reopens the path.
	removeErr := os.Remove(l.path)
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	unlockErr := unlock(file)
	closeErr := file.Close()
	if err := errors.Join(removeErr, unlockErr, closeErr); err != nil {
		return fmt.Errorf(messages.LockReleaseFailedFmt, l.path, err)
	}
	return nil
}
