package bufferpoolmanager

// FreeList keeps frames that do not hold any page, in the order they were released.
// It is not safe for concurrent use, the pool mutex guards it.
type FreeList struct {
	frames []FrameID
}

// NewFreeList returns a free list holding every frame of a pool of the given size.
func NewFreeList(poolSize int) *FreeList {

	frames := make([]FrameID, poolSize)

	for i := range poolSize {
		frames[i] = FrameID(i)
	}

	return &FreeList{frames: frames}
}

// pop removes the oldest free frame.
func (list *FreeList) pop() (FrameID, bool) {

	if len(list.frames) == 0 {
		return INVALID_FRAME_ID, false
	}

	frameId := list.frames[0]
	list.frames = list.frames[1:]

	return frameId, true
}

func (list *FreeList) push(frameId FrameID) {
	list.frames = append(list.frames, frameId)
}

func (list *FreeList) contains(frameId FrameID) bool {

	for _, id := range list.frames {
		if id == frameId {
			return true
		}
	}
	return false
}

func (list *FreeList) size() int {
	return len(list.frames)
}
