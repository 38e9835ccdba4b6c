package bufferpoolmanager

// Replacer keeps track of resident frames whose pin count is zero,
// and picks one of them when the pool needs to reuse a frame.
type Replacer interface {

	// Victim selects a frame to evict based on the replacement policy and stops tracking it.
	// It returns false if no frame is evictable.
	Victim() (FrameID, bool)

	// Pin removes a frame from the set of eviction candidates.
	Pin(frameId FrameID)

	// Unpin adds a frame to the set of eviction candidates.
	Unpin(frameId FrameID)

	// Size returns the number of eviction candidates.
	Size() int
}

const (
	CLOCK_POLICY = "clock"
	LRU_POLICY   = "lru"
)

// NewReplacer builds the replacer for a replacement policy name.
func NewReplacer(policy string, poolSize int) (Replacer, error) {

	switch policy {
	case CLOCK_POLICY, "":
		return NewClockReplacer(poolSize), nil
	case LRU_POLICY:
		return NewLRUReplacer(poolSize), nil
	default:
		return nil, ErrInvalidPolicy
	}
}
