//go:build unix

package bufferpoolmanager

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var ErrFileLocked = errors.New("database file is locked by another process")

// lockFile takes an exclusive, non-blocking advisory lock so two processes never share a database file.
func lockFile(file *os.File) error {

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrFileLocked
		}
		return fmt.Errorf("flock: %w", err)
	}
	return nil
}

func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}

func syncFile(file *os.File) error {
	return unix.Fsync(int(file.Fd()))
}
