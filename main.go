package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"os"

	bpm "github.com/Adarsh-Kmt/DragonBuffer/bufferpoolmanager"
)

func main() {

	config := DefaultEngineConfig()

	pages := flag.Int("pages", 32, "number of pages written and read back")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")

	flag.StringVar(&config.FilePath, "file", config.FilePath, "database file path")
	flag.IntVar(&config.Pool.PoolSize, "pool-size", config.Pool.PoolSize, "number of frames in the buffer pool")
	flag.StringVar(&config.Pool.ReplacementPolicy, "policy", config.Pool.ReplacementPolicy, "replacement policy, clock or lru")
	flag.BoolVar(&config.DirectIO, "direct-io", config.DirectIO, "open the database file with O_DIRECT")
	flag.Parse()

	if err := config.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel})))

	engine, err := NewStorageEngine(config)

	if err != nil {
		slog.Error("Failed to start storage engine", "error", err.Error(), "function", "main", "at", "main")
		os.Exit(1)
	}

	runErr := run(engine.BufferPool(), *pages)

	if err := engine.Close(); err != nil {
		slog.Error("Failed to close storage engine", "error", err.Error(), "function", "main", "at", "main")
		os.Exit(1)
	}

	if runErr != nil {
		slog.Error("workload failed", "error", runErr.Error(), "function", "main", "at", "main")
		os.Exit(1)
	}
}

// run writes a sequence number into each of count new pages, then reads every page back through the pool.
func run(bufferPool *bpm.SimpleBufferPoolManager, count int) error {

	pageIds := make([]bpm.PageID, 0, count)

	for i := range count {

		guard, err := bufferPool.NewPageGuard()

		if err != nil {
			return err
		}

		binary.LittleEndian.PutUint64(guard.Data()[:8], uint64(i))
		guard.MarkDirty()
		pageIds = append(pageIds, guard.GetPageId())

		if err := guard.Done(); err != nil {
			return err
		}
	}

	for i, pageId := range pageIds {

		guard, err := bufferPool.NewReadGuard(pageId)

		if err != nil {
			return err
		}

		value := binary.LittleEndian.Uint64(guard.Data()[:8])

		if err := guard.Done(); err != nil {
			return err
		}

		if value != uint64(i) {
			return fmt.Errorf("page %d holds %d, expected %d", pageId, value, i)
		}
	}

	stats := bufferPool.Stats()

	fmt.Printf("pages=%d pool=%d resident=%d free=%d evictable=%d hits=%d misses=%d evictions=%d writebacks=%d\n",
		count, stats.PoolSize, stats.ResidentPages, stats.FreeFrames, stats.EvictableFrames,
		stats.Hits, stats.Misses, stats.Evictions, stats.WriteBacks)

	return nil
}
