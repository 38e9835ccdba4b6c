package bufferpoolmanager

import (
	"container/list"
	"sync"
)

type LRUReplacer struct {

	// synchronizes access to the list.
	mutex *sync.Mutex

	// keeps track of the order in which frames were unpinned, most recent at the front.
	list *list.List

	// used to remove frames from the middle of the list.
	frameMap map[FrameID]*list.Element

	poolSize int
}

func NewLRUReplacer(poolSize int) *LRUReplacer {

	return &LRUReplacer{
		list:     list.New(),
		frameMap: make(map[FrameID]*list.Element, poolSize),
		mutex:    &sync.Mutex{},
		poolSize: poolSize,
	}
}

// Victim removes and returns the frame at the back of the list, which is the least recently unpinned frame.
func (replacer *LRUReplacer) Victim() (FrameID, bool) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	frameElement := replacer.list.Back()

	if frameElement == nil {
		return INVALID_FRAME_ID, false
	}

	frameId := replacer.list.Remove(frameElement).(FrameID)
	delete(replacer.frameMap, frameId)

	return frameId, true
}

// Unpin inserts the frame at the front of the list, it becomes the most recently used frame.
// Unpinning a frame that is already tracked keeps its position.
func (replacer *LRUReplacer) Unpin(frameId FrameID) {

	if frameId < 0 || int(frameId) >= replacer.poolSize {
		return
	}

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	if _, exists := replacer.frameMap[frameId]; exists {
		return
	}

	replacer.frameMap[frameId] = replacer.list.PushFront(frameId)
}

// Pin removes the frame from the list once its pin count > 0.
func (replacer *LRUReplacer) Pin(frameId FrameID) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	frameElement, exists := replacer.frameMap[frameId]

	if !exists {
		return
	}

	replacer.list.Remove(frameElement)
	delete(replacer.frameMap, frameId)
}

// Size returns the number of frames currently managed by the replacer.
func (replacer *LRUReplacer) Size() int {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	return len(replacer.frameMap)
}
