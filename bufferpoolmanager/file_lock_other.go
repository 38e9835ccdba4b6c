//go:build !unix

package bufferpoolmanager

import (
	"errors"
	"os"
)

var ErrFileLocked = errors.New("database file is locked by another process")

// advisory locks are only taken on unix.
func lockFile(file *os.File) error {
	return nil
}

func unlockFile(file *os.File) error {
	return nil
}

func syncFile(file *os.File) error {
	return file.Sync()
}
