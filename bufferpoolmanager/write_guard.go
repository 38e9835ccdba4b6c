package bufferpoolmanager

import (
	"log/slog"
)

// WriteGuard is used to provide exclusive write access to a page stored in a frame in the buffer pool manager.
type WriteGuard struct {

	// active is used to prevent users from using a write guard once its Done/DeletePage function has been called.
	active     bool
	dirty      bool
	page       *Frame
	pageId     PageID
	bufferPool BufferPoolManager
}

// NewWriteGuard returns an active write guard.
// All guards corresponding to a page share the RW latch of its frame.
func (bufferPool *SimpleBufferPoolManager) NewWriteGuard(pageId PageID) (*WriteGuard, error) {

	page, err := bufferPool.FetchPage(pageId)

	if err != nil {
		slog.Error("Failed to fetch page for write guard", "pageId", pageId, "error", err.Error(), "function", "NewWriteGuard", "at", "WriteGuard")
		return nil, err
	}

	page.latch.Lock()

	return &WriteGuard{
		active:     true,
		page:       page,
		pageId:     pageId,
		bufferPool: bufferPool,
	}, nil
}

// NewPageGuard allocates a new page and returns a write guard on it.
func (bufferPool *SimpleBufferPoolManager) NewPageGuard() (*WriteGuard, error) {

	pageId, page, err := bufferPool.NewPage()

	if err != nil {
		slog.Error("Failed to create page for write guard", "error", err.Error(), "function", "NewPageGuard", "at", "WriteGuard")
		return nil, err
	}

	page.latch.Lock()

	return &WriteGuard{
		active:     true,
		page:       page,
		pageId:     pageId,
		bufferPool: bufferPool,
	}, nil
}

// Data returns the page content, nil once the guard is done.
func (guard *WriteGuard) Data() []byte {

	if !guard.active {
		return nil
	}
	return guard.page.data
}

// GetPageId returns the page ID of the page corresponding to the write guard.
func (guard *WriteGuard) GetPageId() PageID {
	return guard.pageId
}

// MarkDirty records that the page content was modified. The dirty flag reaches the pool when the guard is done.
func (guard *WriteGuard) MarkDirty() bool {

	if !guard.active {
		return false
	}

	guard.dirty = true
	return true
}

// Done releases the exclusive latch and decreases the pin count of the page.
// A guard becomes inactive and cannot be reused once this function has been called.
func (guard *WriteGuard) Done() error {

	if !guard.active {
		return ErrGuardInactive
	}

	guard.release()

	err := guard.bufferPool.UnpinPage(guard.pageId, guard.dirty)

	guard.bufferPool = nil
	return err
}

// DeletePage releases the guard and deletes its page from the buffer pool and the disk.
// It fails with ErrPagePinned if another caller still holds a pin on the page.
func (guard *WriteGuard) DeletePage() error {

	if !guard.active {
		return ErrGuardInactive
	}

	guard.release()

	bufferPool := guard.bufferPool
	guard.bufferPool = nil

	if err := bufferPool.UnpinPage(guard.pageId, CLEAN); err != nil {
		return err
	}

	return bufferPool.DeletePage(guard.pageId)
}

func (guard *WriteGuard) release() {

	guard.active = false
	guard.page.latch.Unlock()
	guard.page = nil
}
