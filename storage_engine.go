package main

import (
	"errors"
	"fmt"
	"log/slog"

	bpm "github.com/Adarsh-Kmt/DragonBuffer/bufferpoolmanager"
)

// EngineConfig describes where the database lives and how its buffer pool is built.
type EngineConfig struct {
	FilePath string

	// DirectIO selects the Direct I/O disk manager, the OS buffered one is used otherwise.
	DirectIO bool

	Pool bpm.Config

	LogLevel slog.Level
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FilePath: "dragon.db",
		DirectIO: true,
		Pool:     bpm.DefaultConfig(),
		LogLevel: slog.LevelInfo,
	}
}

type StorageEngine struct {
	disk              bpm.DiskManager
	bufferPoolManager *bpm.SimpleBufferPoolManager
}

func NewStorageEngine(config EngineConfig) (*StorageEngine, error) {

	if err := config.Pool.Validate(); err != nil {
		return nil, err
	}

	var disk bpm.DiskManager
	var err error

	if config.DirectIO {
		disk, err = bpm.NewDirectIODiskManager(config.FilePath)
	} else {
		disk, err = bpm.NewOSBufferedDiskManager(config.FilePath)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.FilePath, err)
	}

	bufferPoolManager, err := bpm.NewBufferPoolManager(config.Pool, disk)

	if err != nil {
		return nil, errors.Join(err, disk.Close())
	}

	slog.Info("storage engine started", "filePath", config.FilePath, "directIO", config.DirectIO, "poolSize", config.Pool.PoolSize, "policy", config.Pool.ReplacementPolicy, "function", "NewStorageEngine", "at", "StorageEngine")

	return &StorageEngine{
		disk:              disk,
		bufferPoolManager: bufferPoolManager,
	}, nil
}

func (engine *StorageEngine) BufferPool() *bpm.SimpleBufferPoolManager {
	return engine.bufferPoolManager
}

// Close flushes the buffer pool, then closes the disk manager, even if the flush failed.
func (engine *StorageEngine) Close() error {

	poolErr := engine.bufferPoolManager.Close()

	if poolErr != nil {
		slog.Error("Failed to flush buffer pool", "error", poolErr.Error(), "function", "Close", "at", "StorageEngine")
	}

	return errors.Join(poolErr, engine.disk.Close())
}
