package bufferpoolmanager

import (
	"log/slog"
	"os"

	"github.com/ncw/directio"
)

// DirectIODiskManager uses Direct I/O to read/write pages of data directly between user process memory and disk controller.
//
// Direct I/O bypasses the kernel page cache, this is useful because:
// 1. It prevents the file data from being cached twice, once in kernel page cache, and once in the buffer pool.
// 2. It gives the buffer pool complete control over when data is flushed to disk.
type DirectIODiskManager struct {
	*pageFile
}

func NewDirectIODiskManager(filePath string) (*DirectIODiskManager, error) {

	slog.Info("Opening file in DIRECT I/O mode", "filePath", filePath, "function", "NewDirectIODiskManager", "at", "DirectIODiskManager")

	// Create the file if it does not exist, initialize a file descriptor with Direct I/O flag, and read/write permissions.
	file, err := directio.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		slog.Error("Failed to open file", "filePath", filePath, "error", err.Error(), "function", "NewDirectIODiskManager", "at", "DirectIODiskManager")
		return nil, err
	}

	disk, err := openPageFile(file, filePath, true, "DirectIODiskManager")

	if err != nil {
		return nil, err
	}

	return &DirectIODiskManager{pageFile: disk}, nil
}
