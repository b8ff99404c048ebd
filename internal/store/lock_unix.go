//go:build unix

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// acquireLock takes a non-blocking advisory exclusive flock on f,
// returning ErrStoreLocked if another process already holds it.
func acquireLock(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if err == unix.EWOULDBLOCK {
			return ErrStoreLocked
		}
		return err
	}
	return nil
}

// releaseLock drops the advisory lock taken by acquireLock.
func releaseLock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
