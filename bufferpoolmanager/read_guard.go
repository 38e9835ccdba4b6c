package bufferpoolmanager

// ReadGuard is used to provide shared read access to a page stored in a frame in the buffer pool manager.
type ReadGuard struct {
	active     bool
	page       *Frame
	pageId     PageID
	bufferPool BufferPoolManager
}

// NewReadGuard returns an active read guard.
// All guards corresponding to a page share the RW latch of its frame.
func (bufferPool *SimpleBufferPoolManager) NewReadGuard(pageId PageID) (*ReadGuard, error) {

	page, err := bufferPool.FetchPage(pageId)

	if err != nil {
		return nil, err
	}

	page.latch.RLock()

	return &ReadGuard{
		active:     true,
		page:       page,
		pageId:     pageId,
		bufferPool: bufferPool,
	}, nil
}

// Data returns the page content, nil once the guard is done.
func (guard *ReadGuard) Data() []byte {

	if !guard.active {
		return nil
	}
	return guard.page.data
}

func (guard *ReadGuard) GetPageId() PageID {
	return guard.pageId
}

// Done releases the shared latch and decreases the pin count of the page.
// A guard becomes inactive and cannot be reused once this function has been called.
func (guard *ReadGuard) Done() error {

	if !guard.active {
		return ErrGuardInactive
	}

	guard.active = false
	guard.page.latch.RUnlock()

	err := guard.bufferPool.UnpinPage(guard.pageId, CLEAN)

	guard.page = nil
	guard.bufferPool = nil

	return err
}
