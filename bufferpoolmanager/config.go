package bufferpoolmanager

import "fmt"

// Config holds the buffer pool options.
type Config struct {
	// PoolSize is the number of frames, fixed for the lifetime of the pool.
	PoolSize int

	// PageSize must match the page size of the disk manager.
	PageSize int

	// ReplacementPolicy is either "clock" or "lru".
	ReplacementPolicy string
}

// DefaultConfig returns a 64 frame pool using the clock replacer.
func DefaultConfig() Config {
	return Config{
		PoolSize:          64,
		PageSize:          PAGE_SIZE,
		ReplacementPolicy: CLOCK_POLICY,
	}
}

func (config Config) Validate() error {

	if config.PoolSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPoolSize, config.PoolSize)
	}

	if config.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, config.PageSize)
	}

	switch config.ReplacementPolicy {
	case CLOCK_POLICY, LRU_POLICY:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, config.ReplacementPolicy)
	}

	return nil
}

// NewBufferPoolManager validates the config and builds a pool with the configured replacer on top of disk.
func NewBufferPoolManager(config Config, disk DiskManager) (*SimpleBufferPoolManager, error) {

	if err := config.Validate(); err != nil {
		return nil, err
	}

	replacer, err := NewReplacer(config.ReplacementPolicy, config.PoolSize)

	if err != nil {
		return nil, err
	}

	return NewSimpleBufferPoolManager(config.PoolSize, config.PageSize, replacer, disk)
}
