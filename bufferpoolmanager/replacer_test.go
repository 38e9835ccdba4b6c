package bufferpoolmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReplacer(t *testing.T) {

	replacer, err := NewReplacer(CLOCK_POLICY, 4)
	require.NoError(t, err)
	assert.IsType(t, &ClockReplacer{}, replacer)

	replacer, err = NewReplacer(LRU_POLICY, 4)
	require.NoError(t, err)
	assert.IsType(t, &LRUReplacer{}, replacer)

	_, err = NewReplacer("fifo", 4)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}
