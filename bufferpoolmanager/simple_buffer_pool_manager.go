package bufferpoolmanager

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// BufferPoolManager multiplexes a fixed number of frames over the pages of a disk manager.
// A frame returned by FetchPage or NewPage is pinned, and must be released with UnpinPage.
type BufferPoolManager interface {
	FetchPage(pageId PageID) (*Frame, error)
	UnpinPage(pageId PageID, isDirty bool) error
	FlushPage(pageId PageID) error
	NewPage() (PageID, *Frame, error)
	DeletePage(pageId PageID) error
	FlushAllPages() error
	Close() error
}

// Stats is a point in time view of the pool.
type Stats struct {
	PoolSize        int
	ResidentPages   int
	FreeFrames      int
	EvictableFrames int

	Hits       uint64
	Misses     uint64
	Evictions  uint64
	WriteBacks uint64
}

// SimpleBufferPoolManager serializes every pool decision under a single mutex,
// including the write back of a dirty victim, so a victim can never be selected twice.
// Page content is not guarded by this mutex, see ReadGuard and WriteGuard.
type SimpleBufferPoolManager struct {
	mutex *sync.Mutex

	frames    []*Frame
	pageTable *PageTable
	freeList  *FreeList
	replacer  Replacer
	disk      DiskManager

	poolSize int
	pageSize int
	closed   bool

	hits       uint64
	misses     uint64
	evictions  uint64
	writeBacks uint64
}

func NewSimpleBufferPoolManager(poolSize int, pageSize int, replacer Replacer, disk DiskManager) (*SimpleBufferPoolManager, error) {

	if poolSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolSize, poolSize)
	}

	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	if disk.PageSize() != pageSize {
		return nil, fmt.Errorf("%w: pool %d, disk %d", ErrPageSizeMismatch, pageSize, disk.PageSize())
	}

	mutex := &sync.Mutex{}

	buffers := allocateFrameBuffers(poolSize, pageSize)
	frames := make([]*Frame, poolSize)

	for i := range poolSize {
		frames[i] = newFrame(FrameID(i), buffers[i], mutex)
	}

	slog.Info("buffer pool created", "poolSize", poolSize, "pageSize", pageSize, "function", "NewSimpleBufferPoolManager", "at", "SimpleBufferPoolManager")

	return &SimpleBufferPoolManager{
		mutex:     mutex,
		frames:    frames,
		pageTable: NewPageTable(poolSize),
		freeList:  NewFreeList(poolSize),
		replacer:  replacer,
		disk:      disk,
		poolSize:  poolSize,
		pageSize:  pageSize,
	}, nil
}

// FetchPage returns the frame holding the page, pinned.
// If the page is not resident it is read from disk into a free frame, or into a frame reclaimed from the replacer.
func (bufferPool *SimpleBufferPoolManager) FetchPage(pageId PageID) (*Frame, error) {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return nil, ErrPoolClosed
	}

	// page 0 is reserved for disk metadata, negative IDs are never allocated.
	if pageId <= METADATA_PAGE_ID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageId, pageId)
	}

	if frameId, exists := bufferPool.pageTable.lookup(pageId); exists {

		frame := bufferPool.frames[frameId]

		bufferPool.replacer.Pin(frameId)
		frame.pinCount++
		bufferPool.hits++

		slog.Debug("fetched page from memory", "pageId", pageId, "frameId", frameId, "pinCount", frame.pinCount, "function", "FetchPage", "at", "SimpleBufferPoolManager")

		return frame, nil
	}

	frame, err := bufferPool.claimFrame()

	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", pageId, err)
	}

	bufferPool.misses++

	if err := bufferPool.disk.ReadPage(pageId, frame.data); err != nil {

		slog.Error("Failed to read page", "pageId", pageId, "error", err.Error(), "function", "FetchPage", "at", "SimpleBufferPoolManager")

		// the frame was claimed but never bound, hand it back.
		bufferPool.freeList.push(frame.id)
		return nil, fmt.Errorf("read page %d: %w", pageId, err)
	}

	bufferPool.bind(frame, pageId)

	slog.Debug("fetched page from disk", "pageId", pageId, "frameId", frame.id, "function", "FetchPage", "at", "SimpleBufferPoolManager")

	return frame, nil
}

// UnpinPage releases one pin on a page. The dirty flag is sticky, isDirty = false never clears it.
// Unpinning a page that is not resident succeeds, the pin was already released by its eviction.
func (bufferPool *SimpleBufferPoolManager) UnpinPage(pageId PageID, isDirty bool) error {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	frameId, exists := bufferPool.pageTable.lookup(pageId)

	if !exists {
		slog.Debug("unpin of page that is not resident", "pageId", pageId, "function", "UnpinPage", "at", "SimpleBufferPoolManager")
		return nil
	}

	frame := bufferPool.frames[frameId]

	if frame.pinCount <= 0 {
		slog.Error("Failed to unpin page, pin count is already zero", "pageId", pageId, "function", "UnpinPage", "at", "SimpleBufferPoolManager")
		return fmt.Errorf("unpin page %d: %w", pageId, ErrDoubleUnpin)
	}

	frame.pinCount--
	frame.dirty = frame.dirty || isDirty

	if frame.pinCount == 0 {
		bufferPool.replacer.Unpin(frameId)
	}

	slog.Debug("unpinned page", "pageId", pageId, "pinCount", frame.pinCount, "dirty", frame.dirty, "function", "UnpinPage", "at", "SimpleBufferPoolManager")

	return nil
}

// FlushPage writes a resident page to disk if it is dirty.
func (bufferPool *SimpleBufferPoolManager) FlushPage(pageId PageID) error {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return ErrPoolClosed
	}

	frameId, exists := bufferPool.pageTable.lookup(pageId)

	if !exists {
		return fmt.Errorf("flush page %d: %w", pageId, ErrPageNotResident)
	}

	return bufferPool.flushFrame(bufferPool.frames[frameId])
}

// NewPage allocates a page on disk and binds it to a zeroed, pinned frame.
// If no frame can be claimed the page ID stays allocated on disk.
func (bufferPool *SimpleBufferPoolManager) NewPage() (PageID, *Frame, error) {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return INVALID_PAGE_ID, nil, ErrPoolClosed
	}

	pageId, err := bufferPool.disk.AllocatePage()

	if err != nil {
		slog.Error("Failed to allocate page", "error", err.Error(), "function", "NewPage", "at", "SimpleBufferPoolManager")
		return INVALID_PAGE_ID, nil, fmt.Errorf("allocate page: %w", err)
	}

	frame, err := bufferPool.claimFrame()

	if err != nil {
		slog.Warn("allocated page could not be cached", "pageId", pageId, "error", err.Error(), "function", "NewPage", "at", "SimpleBufferPoolManager")
		return INVALID_PAGE_ID, nil, fmt.Errorf("new page %d: %w", pageId, err)
	}

	clear(frame.data)
	bufferPool.bind(frame, pageId)

	slog.Debug("created new page", "pageId", pageId, "frameId", frame.id, "function", "NewPage", "at", "SimpleBufferPoolManager")

	return pageId, frame, nil
}

// DeletePage drops a page from the pool and deallocates it on disk.
// A pinned page cannot be deleted. Dirty content of a deleted page is discarded.
func (bufferPool *SimpleBufferPoolManager) DeletePage(pageId PageID) error {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return ErrPoolClosed
	}

	if frameId, exists := bufferPool.pageTable.lookup(pageId); exists {

		frame := bufferPool.frames[frameId]

		if frame.pinCount > 0 {
			return fmt.Errorf("delete page %d with pin count %d: %w", pageId, frame.pinCount, ErrPagePinned)
		}

		bufferPool.replacer.Pin(frameId)
		bufferPool.pageTable.remove(pageId)
		frame.reset()
		bufferPool.freeList.push(frameId)

		slog.Debug("removed page from pool", "pageId", pageId, "frameId", frameId, "function", "DeletePage", "at", "SimpleBufferPoolManager")
	}

	if err := bufferPool.disk.DeallocatePage(pageId); err != nil {
		return fmt.Errorf("deallocate page %d: %w", pageId, err)
	}

	return nil
}

// FlushAllPages writes every resident dirty page to disk.
// A failed write does not stop the others, all failures are joined into the returned error.
func (bufferPool *SimpleBufferPoolManager) FlushAllPages() error {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return ErrPoolClosed
	}

	return bufferPool.flushAll()
}

// Close flushes every dirty page and rejects later operations.
// The disk manager is owned by the caller and stays open.
func (bufferPool *SimpleBufferPoolManager) Close() error {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	if bufferPool.closed {
		return nil
	}

	slog.Info("Closing buffer pool...", "function", "Close", "at", "SimpleBufferPoolManager")

	bufferPool.closed = true

	return bufferPool.flushAll()
}

func (bufferPool *SimpleBufferPoolManager) Stats() Stats {

	bufferPool.mutex.Lock()
	defer bufferPool.mutex.Unlock()

	return Stats{
		PoolSize:        bufferPool.poolSize,
		ResidentPages:   bufferPool.pageTable.size(),
		FreeFrames:      bufferPool.freeList.size(),
		EvictableFrames: bufferPool.replacer.Size(),
		Hits:            bufferPool.hits,
		Misses:          bufferPool.misses,
		Evictions:       bufferPool.evictions,
		WriteBacks:      bufferPool.writeBacks,
	}
}

func (bufferPool *SimpleBufferPoolManager) PoolSize() int {
	return bufferPool.poolSize
}

// claimFrame returns a frame that holds no page, taken from the free list first, then from the replacer.
// A dirty victim is written back before it is released. The returned frame is in neither
// the free list nor the page table, the caller must bind it or push it back to the free list.
func (bufferPool *SimpleBufferPoolManager) claimFrame() (*Frame, error) {

	if frameId, ok := bufferPool.freeList.pop(); ok {
		return bufferPool.frames[frameId], nil
	}

	frameId, ok := bufferPool.replacer.Victim()

	if !ok {
		return nil, ErrPoolExhausted
	}

	frame := bufferPool.frames[frameId]
	victimPageId := frame.pageId

	if frame.dirty {

		if err := bufferPool.disk.WritePage(victimPageId, frame.data); err != nil {

			slog.Error("Failed to write back victim page", "pageId", victimPageId, "error", err.Error(), "function", "claimFrame", "at", "SimpleBufferPoolManager")

			// the victim stays resident and dirty, make it evictable again.
			bufferPool.replacer.Unpin(frameId)
			return nil, fmt.Errorf("write back page %d: %w", victimPageId, err)
		}

		bufferPool.writeBacks++
	}

	bufferPool.pageTable.remove(victimPageId)
	frame.reset()
	bufferPool.evictions++

	slog.Debug("evicted page", "pageId", victimPageId, "frameId", frameId, "function", "claimFrame", "at", "SimpleBufferPoolManager")

	return frame, nil
}

// bind makes a claimed frame resident for pageId with a single pin.
func (bufferPool *SimpleBufferPoolManager) bind(frame *Frame, pageId PageID) {

	frame.pageId = pageId
	frame.pinCount = 1
	frame.dirty = false

	bufferPool.pageTable.insert(pageId, frame.id)
	bufferPool.replacer.Pin(frame.id)
}

func (bufferPool *SimpleBufferPoolManager) flushFrame(frame *Frame) error {

	if !frame.dirty {
		return nil
	}

	if err := bufferPool.disk.WritePage(frame.pageId, frame.data); err != nil {

		slog.Error("Failed to flush page", "pageId", frame.pageId, "error", err.Error(), "function", "flushFrame", "at", "SimpleBufferPoolManager")
		return fmt.Errorf("flush page %d: %w", frame.pageId, err)
	}

	frame.dirty = false
	return nil
}

func (bufferPool *SimpleBufferPoolManager) flushAll() error {

	var errs []error

	for _, frame := range bufferPool.frames {

		if !frame.resident() || !frame.dirty {
			continue
		}

		if err := bufferPool.flushFrame(frame); err != nil {
			errs = append(errs, err)
		}
	}

	slog.Info("flushed all pages", "failures", len(errs), "function", "FlushAllPages", "at", "SimpleBufferPoolManager")

	return errors.Join(errs...)
}
