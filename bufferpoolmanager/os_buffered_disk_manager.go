package bufferpoolmanager

import (
	"log/slog"
	"os"
)

// OSBufferedDiskManager reads and writes pages through the kernel page cache.
// It works on file systems that reject O_DIRECT, such as tmpfs on older kernels.
type OSBufferedDiskManager struct {
	*pageFile
}

func NewOSBufferedDiskManager(filePath string) (*OSBufferedDiskManager, error) {

	slog.Info("Opening file in buffered mode", "filePath", filePath, "function", "NewOSBufferedDiskManager", "at", "OSBufferedDiskManager")

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		slog.Error("Failed to open file", "filePath", filePath, "error", err.Error(), "function", "NewOSBufferedDiskManager", "at", "OSBufferedDiskManager")
		return nil, err
	}

	disk, err := openPageFile(file, filePath, false, "OSBufferedDiskManager")

	if err != nil {
		return nil, err
	}

	return &OSBufferedDiskManager{pageFile: disk}, nil
}
