package bufferpoolmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {

	tests := []struct {
		name   string
		config Config
		err    error
	}{
		{name: "default", config: DefaultConfig()},
		{name: "zero pool size", config: Config{PoolSize: 0, PageSize: PAGE_SIZE, ReplacementPolicy: CLOCK_POLICY}, err: ErrInvalidPoolSize},
		{name: "negative page size", config: Config{PoolSize: 4, PageSize: -1, ReplacementPolicy: LRU_POLICY}, err: ErrInvalidPageSize},
		{name: "unknown policy", config: Config{PoolSize: 4, PageSize: PAGE_SIZE, ReplacementPolicy: "fifo"}, err: ErrInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewBufferPoolManagerFromConfig(t *testing.T) {

	config := DefaultConfig()
	config.PoolSize = 2
	config.ReplacementPolicy = LRU_POLICY

	bufferPool, err := NewBufferPoolManager(config, newRecordingDiskManager())
	require.NoError(t, err)

	assert.IsType(t, &LRUReplacer{}, bufferPool.replacer)
	assert.Equal(t, 2, bufferPool.PoolSize())

	config.PageSize = 512
	_, err = NewBufferPoolManager(config, newRecordingDiskManager())
	assert.ErrorIs(t, err, ErrPageSizeMismatch)
}
