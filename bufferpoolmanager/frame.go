package bufferpoolmanager

import "sync"

// Frame is one slot of the frame store. The pool owns every frame,
// callers borrow a *Frame only while they hold a pin on its page.
type Frame struct {
	id   FrameID
	data []byte

	// pageId, pinCount and dirty are guarded by the pool mutex.
	pageId   PageID
	pinCount int
	dirty    bool

	// poolMutex points at the mutex of the owning pool, so accessors can read metadata safely.
	poolMutex *sync.Mutex

	// latch guards page content. It is acquired by read/write guards, never by the pool itself.
	latch sync.RWMutex
}

func newFrame(id FrameID, data []byte, poolMutex *sync.Mutex) *Frame {
	return &Frame{
		id:        id,
		data:      data,
		pageId:    INVALID_PAGE_ID,
		poolMutex: poolMutex,
	}
}

// Data returns the page bytes. Concurrent access to the content must be coordinated by the caller,
// typically through a ReadGuard or WriteGuard.
func (frame *Frame) Data() []byte {
	return frame.data
}

func (frame *Frame) GetFrameId() FrameID {
	return frame.id
}

func (frame *Frame) GetPageId() PageID {
	frame.poolMutex.Lock()
	defer frame.poolMutex.Unlock()

	return frame.pageId
}

func (frame *Frame) GetPinCount() int {
	frame.poolMutex.Lock()
	defer frame.poolMutex.Unlock()

	return frame.pinCount
}

func (frame *Frame) IsDirty() bool {
	frame.poolMutex.Lock()
	defer frame.poolMutex.Unlock()

	return frame.dirty
}

// reset clears the frame metadata. Page bytes are left as they are,
// they are meaningless until the frame is bound to a new page.
func (frame *Frame) reset() {
	frame.pageId = INVALID_PAGE_ID
	frame.pinCount = 0
	frame.dirty = false
}

func (frame *Frame) resident() bool {
	return frame.pageId != INVALID_PAGE_ID
}
