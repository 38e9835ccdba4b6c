package bufferpoolmanager

import "sync"

// ClockReplacer approximates LRU with a second chance clock.
//
// Victim sweeps the frames at most once starting at the clock hand. A tracked frame
// whose reference bit is unset is evicted immediately. A tracked frame whose reference
// bit is set has the bit cleared, and the first such frame seen in the sweep is kept
// as a fallback, evicted if the sweep finds nothing better. A frame passed over twice
// is therefore not required before eviction, which keeps Victim bounded to one pass.
type ClockReplacer struct {
	mutex *sync.Mutex

	// tracked[i] is true iff frame i is resident with a pin count of zero.
	tracked []bool

	// referenced[i] is the second chance bit of frame i.
	referenced []bool

	hand     int
	poolSize int
}

func NewClockReplacer(poolSize int) *ClockReplacer {

	return &ClockReplacer{
		mutex:      &sync.Mutex{},
		tracked:    make([]bool, poolSize),
		referenced: make([]bool, poolSize),
		hand:       0,
		poolSize:   poolSize,
	}
}

func (replacer *ClockReplacer) Victim() (FrameID, bool) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	fallback := -1

	for i := range replacer.poolSize {

		idx := (replacer.hand + i) % replacer.poolSize

		if !replacer.tracked[idx] {
			continue
		}

		if !replacer.referenced[idx] {
			replacer.tracked[idx] = false
			replacer.hand = (idx + 1) % replacer.poolSize
			return FrameID(idx), true
		}

		// age the frame, it gets evicted only if nothing unreferenced turns up in this sweep.
		replacer.referenced[idx] = false
		if fallback == -1 {
			fallback = idx
		}
	}

	if fallback == -1 {
		return INVALID_FRAME_ID, false
	}

	replacer.tracked[fallback] = false
	replacer.hand = (fallback + 1) % replacer.poolSize

	return FrameID(fallback), true
}

func (replacer *ClockReplacer) Pin(frameId FrameID) {

	if !replacer.valid(frameId) {
		return
	}

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	replacer.tracked[frameId] = false
}

func (replacer *ClockReplacer) Unpin(frameId FrameID) {

	if !replacer.valid(frameId) {
		return
	}

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	replacer.tracked[frameId] = true
	replacer.referenced[frameId] = true
}

func (replacer *ClockReplacer) Size() int {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	count := 0
	for _, tracked := range replacer.tracked {
		if tracked {
			count++
		}
	}
	return count
}

func (replacer *ClockReplacer) isTracked(frameId FrameID) bool {

	if !replacer.valid(frameId) {
		return false
	}

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	return replacer.tracked[frameId]
}

func (replacer *ClockReplacer) valid(frameId FrameID) bool {
	return frameId >= 0 && int(frameId) < replacer.poolSize
}
