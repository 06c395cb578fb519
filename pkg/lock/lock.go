package lock

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Lock is an exclusive advisory lock on a file. It keeps two indexsync runs
// on the same machine from pushing to the replicas at the same time.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock at `path` without blocking. If another process
// holds it, a friendly error is returned.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.WithContext(err, "create lock directory")
	}

	l := &Lock{flock: flock.New(path)}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return nil, errors.WithContext(err, "acquire lock")
	}

	if !acquired {
		return nil, errors.NewFriendlyError(
			"Another indexsync run holds the lock at %s.\n"+
				"Wait for it to finish, and try again.", path)
	}
	return l, nil
}

// Release releases the lock. It's safe to call more than once.
func (l *Lock) Release() error {
	if !l.flock.Locked() {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		return errors.WithContext(err, "release lock")
	}
	return nil
}

// Path returns the path of the lock file.
func (l *Lock) Path() string {
	return l.flock.Path()
}
